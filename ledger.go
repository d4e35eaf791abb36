package intcap

import (
	"fmt"
	"iter"
	"sync"

	"github.com/google/uuid"
	"github.com/intcap/intcap/date"
	"github.com/shopspring/decimal"
)

// Entry is one sequenced, hash-chained record in the ledger. The digest
// covers the entry's canonical JSON form (digest field excluded) and the
// previous entry's digest, so any mutation of an appended entry breaks
// the chain from that point on.
type Entry struct {
	Seq     uint64
	Event   CapitalEvent
	Balance Money // asset book value after the event
	Prev    string
	Digest  string
}

// payload writes the digest-covered part of the entry.
func (e Entry) payload() *jsonObjectWriter {
	var w jsonObjectWriter
	w.Append("seq", e.Seq)
	w.Append("event", e.Event)
	w.Append("balance", e.Balance)
	w.Append("prev", e.Prev)
	return &w
}

// computeDigest returns the canonical-form SHA-256 of the entry payload.
func (e Entry) computeDigest() (string, error) {
	return digestOf(e.payload())
}

func (e Entry) MarshalJSON() ([]byte, error) {
	w := e.payload()
	w.Append("digest", e.Digest)
	return w.MarshalJSON()
}

// Ledger is the append-only arena of capital events. Entries are totally
// ordered by sequence number and hash-chained; nothing is ever updated or
// deleted in place.
//
// The asset index (states, book values, allocation figures, depreciated
// periods) is derived from the entries and maintained incrementally on
// append. It is a cache: every figure it holds can be recomputed by
// replaying the chain.
type Ledger struct {
	mu       sync.Mutex
	currency string

	entries []Entry
	assets  map[uuid.UUID]*IntelligenceAsset
	order   []uuid.UUID                 // assets in capitalization order
	spans   map[uuid.UUID][]date.Range  // depreciated periods per asset
	proofs  map[uuid.UUID][]CapitalProof // per-asset proof chain
}

// NewLedger creates an empty ledger denominated in the given currency.
func NewLedger(currency string) *Ledger {
	return &Ledger{
		currency: currency,
		assets:   make(map[uuid.UUID]*IntelligenceAsset),
		spans:    make(map[uuid.UUID][]date.Range),
		proofs:   make(map[uuid.UUID][]CapitalProof),
	}
}

// Currency returns the ledger's denomination currency.
func (l *Ledger) Currency() string { return l.currency }

// Len returns the number of entries.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// TailSeq returns the sequence number of the last entry, 0 when empty.
func (l *Ledger) TailSeq() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tailSeq()
}

// TailDigest returns the digest of the last entry, "" when empty.
func (l *Ledger) TailDigest() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tailDigest()
}

func (l *Ledger) tailSeq() uint64 {
	return uint64(len(l.entries))
}

func (l *Ledger) tailDigest() string {
	if len(l.entries) == 0 {
		return ""
	}
	return l.entries[len(l.entries)-1].Digest
}

// lock-free lookups, callers must hold l.mu.

func (l *Ledger) asset(id uuid.UUID) *IntelligenceAsset { return l.assets[id] }

func (l *Ledger) periods(id uuid.UUID) []date.Range { return l.spans[id] }

func (l *Ledger) entryAt(seq uint64) (Entry, bool) {
	if seq == 0 || seq > uint64(len(l.entries)) {
		return Entry{}, false
	}
	return l.entries[seq-1], true
}

// entry is the name used by event validation.
func (l *Ledger) entry(seq uint64) (Entry, bool) { return l.entryAt(seq) }

// AppendAt validates and appends an event, provided the ledger tail is
// still at the expected sequence number. When another writer got in
// between, it returns ErrConcurrentWrite and appends nothing: the caller
// re-reads the state and retries. This is the whole concurrency story --
// no partial writes, no reordering.
func (l *Ledger) AppendAt(expectedTail uint64, ev CapitalEvent) (Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.tailSeq() != expectedTail {
		return Entry{}, fmt.Errorf("%w: tail moved from %d to %d", ErrConcurrentWrite, expectedTail, l.tailSeq())
	}
	if c := ev.Delta().Currency(); c != "" && c != l.currency {
		return Entry{}, fmt.Errorf("%w: event in %s on a %s ledger", ErrValidation, c, l.currency)
	}
	if err := ev.validate(l); err != nil {
		return Entry{}, err
	}

	balance := ev.Delta()
	if a := l.asset(ev.Asset()); a != nil {
		balance = a.BookValue.Add(ev.Delta())
	}

	e := Entry{
		Seq:     l.tailSeq() + 1,
		Event:   ev,
		Balance: balance,
		Prev:    l.tailDigest(),
	}
	digest, err := e.computeDigest()
	if err != nil {
		return Entry{}, fmt.Errorf("sealing entry %d: %w", e.Seq, err)
	}
	e.Digest = digest

	l.entries = append(l.entries, e)
	l.processEntry(e)
	return e, nil
}

// Append appends with optimistic retry on concurrent writes.
func (l *Ledger) Append(ev CapitalEvent) (Entry, error) {
	for {
		e, err := l.AppendAt(l.TailSeq(), ev)
		if err == nil || !isConcurrentWrite(err) {
			return e, err
		}
	}
}

// processEntry folds an appended entry into the asset index.
// Callers must hold l.mu.
func (l *Ledger) processEntry(e Entry) {
	switch ev := e.Event.(type) {
	case Capitalize:
		zero := M(decimal.Zero, l.currency)
		l.assets[ev.AssetID] = &IntelligenceAsset{
			ID:            ev.AssetID,
			Unit:          ev.Unit,
			CapitalizedOn: ev.On,
			InitialValue:  ev.Value,
			Method:        ev.Method,
			State:         Capitalized,
			BookValue:     ev.Value,
			Allocated:     zero,
			Utilized:      zero,
		}
		l.order = append(l.order, ev.AssetID)
	case Allocate:
		a := l.assets[ev.AssetID]
		a.Allocated = a.Allocated.Add(ev.Amount)
		a.State = Allocated
	case Utilize:
		a := l.assets[ev.AssetID]
		a.Utilized = a.Utilized.Add(ev.Amount)
		a.State = Utilized
	case Depreciate:
		a := l.assets[ev.AssetID]
		a.BookValue = a.BookValue.Add(e.Event.Delta())
		a.State = Depreciating
		l.spans[ev.AssetID] = append(l.spans[ev.AssetID], ev.Period)
	case Retire:
		a := l.assets[ev.AssetID]
		a.BookValue = a.BookValue.Add(e.Event.Delta())
		a.State = Retired
	case Reconcile:
		a := l.assets[ev.AssetID]
		a.BookValue = a.BookValue.Add(ev.Amount)
	}
}

// Entries iterates entries in sequence order over [from, to]. Zero bounds
// default to the first and last entry. The iteration runs over a snapshot,
// so concurrent appends do not affect it.
func (l *Ledger) Entries(from, to uint64) iter.Seq2[uint64, Entry] {
	l.mu.Lock()
	snapshot := make([]Entry, len(l.entries))
	copy(snapshot, l.entries)
	l.mu.Unlock()

	if from == 0 {
		from = 1
	}
	if to == 0 || to > uint64(len(snapshot)) {
		to = uint64(len(snapshot))
	}
	return func(yield func(uint64, Entry) bool) {
		for seq := from; seq <= to; seq++ {
			if !yield(seq, snapshot[seq-1]) {
				return
			}
		}
	}
}

// Entry returns the entry at the given sequence number.
func (l *Ledger) Entry(seq uint64) (Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.entryAt(seq)
}

// Asset returns a copy of the asset's current derived record.
func (l *Ledger) Asset(id uuid.UUID) (IntelligenceAsset, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	a := l.assets[id]
	if a == nil {
		return IntelligenceAsset{}, false
	}
	return *a, true
}

// Assets returns all assets in capitalization order.
func (l *Ledger) Assets() []IntelligenceAsset {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]IntelligenceAsset, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, *l.assets[id])
	}
	return out
}

// AssetEntries returns the entries touching the given asset, in sequence order.
func (l *Ledger) AssetEntries(id uuid.UUID) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []Entry
	for _, e := range l.entries {
		if e.Event.Asset() == id {
			out = append(out, e)
		}
	}
	return out
}

// DepreciatedPeriods returns the periods already depreciated for an asset.
func (l *Ledger) DepreciatedPeriods(id uuid.UUID) []date.Range {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]date.Range, len(l.spans[id]))
	copy(out, l.spans[id])
	return out
}

// BookValue recomputes an asset's book value as of the given date by
// replaying its entries, ignoring the index. Replaying the same chain
// always yields the same figure.
func (l *Ledger) BookValue(id uuid.UUID, asOf date.Date) (Money, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.assets[id] == nil {
		return Money{}, fmt.Errorf("%w: unknown asset %s", ErrValidation, id)
	}
	book := M(decimal.Zero, l.currency)
	seen := false
	for _, e := range l.entries {
		if e.Event.Asset() != id || e.Event.When().After(asOf) {
			continue
		}
		seen = true
		book = book.Add(e.Event.Delta())
	}
	if !seen {
		return Money{}, fmt.Errorf("%w: asset %s has no entry on or before %s", ErrValidation, id, asOf)
	}
	return book, nil
}
