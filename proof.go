package intcap

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/intcap/intcap/date"
	"github.com/shopspring/decimal"
)

// EntryRef pins a ledger entry by sequence and digest, so a proof stays
// falsifiable even if the ledger is later tampered with.
type EntryRef struct {
	Seq    uint64
	Digest string
}

func (r EntryRef) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("seq", r.Seq)
	w.Append("digest", r.Digest)
	return w.MarshalJSON()
}

// CapitalProof is a verifiable statement of an asset's book value as of a
// date. It references every entry that contributed to the figure, and is
// itself hash-chained per asset: each new proof links the previous one,
// so a chain of proofs over time is tamper-evident in the same way the
// ledger is.
type CapitalProof struct {
	ID     uuid.UUID
	Asset  uuid.UUID
	AsOf   date.Date
	State  AssetState
	Figure Money // book value as of AsOf
	Refs   []EntryRef
	Prev   string // hash of the asset's previous proof, "" for the first
	Hash   string
}

func (p CapitalProof) payload() *jsonObjectWriter {
	var w jsonObjectWriter
	w.Append("id", p.ID)
	w.Append("asset", p.Asset)
	w.Append("asOf", p.AsOf)
	w.Append("state", p.State)
	w.Append("figure", p.Figure)
	w.Append("refs", p.Refs)
	w.Append("prev", p.Prev)
	return &w
}

func (p CapitalProof) computeHash() (string, error) {
	return digestOf(p.payload())
}

func (p CapitalProof) MarshalJSON() ([]byte, error) {
	w := p.payload()
	w.Append("hash", p.Hash)
	return w.MarshalJSON()
}

func (p *CapitalProof) UnmarshalJSON(b []byte) error {
	var temp struct {
		ID     uuid.UUID   `json:"id"`
		Asset  uuid.UUID   `json:"asset"`
		AsOf   date.Date   `json:"asOf"`
		State  AssetState  `json:"state"`
		Figure amountField `json:"figure"`
		Refs   []struct {
			Seq    uint64 `json:"seq"`
			Digest string `json:"digest"`
		} `json:"refs"`
		Prev string `json:"prev"`
		Hash string `json:"hash"`
	}
	if err := json.Unmarshal(b, &temp); err != nil {
		return err
	}
	p.ID, p.Asset, p.AsOf, p.State = temp.ID, temp.Asset, temp.AsOf, temp.State
	p.Figure = temp.Figure.Money()
	p.Refs = p.Refs[:0]
	for _, r := range temp.Refs {
		p.Refs = append(p.Refs, EntryRef{Seq: r.Seq, Digest: r.Digest})
	}
	p.Prev, p.Hash = temp.Prev, temp.Hash
	return nil
}

// Prove derives a capital proof for the asset as of the given date and
// records it on the asset's proof chain. The figure and state are
// recomputed from the referenced entries, never read from the index, so
// the proof carries everything needed to check it.
func Prove(l *Ledger, asset uuid.UUID, asOf date.Date) (CapitalProof, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.assets[asset] == nil {
		return CapitalProof{}, fmt.Errorf("%w: unknown asset %s", ErrValidation, asset)
	}

	p := CapitalProof{
		ID:     uuid.New(),
		Asset:  asset,
		AsOf:   asOf,
		Figure: M(decimal.Zero, l.currency),
	}
	for _, e := range l.entries {
		if e.Event.Asset() != asset || e.Event.When().After(asOf) {
			continue
		}
		p.Refs = append(p.Refs, EntryRef{Seq: e.Seq, Digest: e.Digest})
		p.Figure = p.Figure.Add(e.Event.Delta())
		p.State = stateAfter(p.State, e.Event)
	}
	if len(p.Refs) == 0 {
		return CapitalProof{}, fmt.Errorf("%w: asset %s has no entry on or before %s", ErrValidation, asset, asOf)
	}
	if chain := l.proofs[asset]; len(chain) > 0 {
		p.Prev = chain[len(chain)-1].Hash
	}

	hash, err := p.computeHash()
	if err != nil {
		return CapitalProof{}, fmt.Errorf("sealing proof for asset %s: %w", asset, err)
	}
	p.Hash = hash
	l.proofs[asset] = append(l.proofs[asset], p)
	return p, nil
}

// stateAfter folds one event into the lifecycle state.
func stateAfter(s AssetState, ev CapitalEvent) AssetState {
	switch ev.Kind() {
	case KindCapitalize:
		return Capitalized
	case KindAllocate:
		return Allocated
	case KindUtilize:
		return Utilized
	case KindDepreciate:
		return Depreciating
	case KindRetire:
		return Retired
	default:
		return s
	}
}

// AdoptProof re-verifies a previously issued proof and restores it on
// the asset's proof chain, so the chain survives process restarts. The
// proof must link the current chain tail.
func (l *Ledger) AdoptProof(p CapitalProof) error {
	if err := VerifyProof(l, p); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	tail := ""
	if chain := l.proofs[p.Asset]; len(chain) > 0 {
		tail = chain[len(chain)-1].Hash
	}
	if p.Prev != tail {
		return fmt.Errorf("proof %s does not link the chain tail", p.ID)
	}
	l.proofs[p.Asset] = append(l.proofs[p.Asset], p)
	return nil
}

// Proofs returns the asset's proof chain in issuance order.
func (l *Ledger) Proofs(asset uuid.UUID) []CapitalProof {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]CapitalProof, len(l.proofs[asset]))
	copy(out, l.proofs[asset])
	return out
}

// VerifyProof re-derives a proof against the ledger. The expected
// reference set is recomputed from the ledger itself: the proof must
// cover every entry of the asset dated on or before AsOf, with the
// recorded digests, and its figure and state must replay from those
// entries. A proof that drops an entry certifies a stale figure and
// fails here. Verification is pure; a failed proof is reported, never
// patched.
func VerifyProof(l *Ledger, p CapitalProof) error {
	var expected []Entry
	for _, e := range l.AssetEntries(p.Asset) {
		if e.Event.When().After(p.AsOf) {
			continue
		}
		expected = append(expected, e)
	}
	if len(expected) == 0 {
		return fmt.Errorf("proof %s: asset %s has no entry on or before %s", p.ID, p.Asset, p.AsOf)
	}
	if len(p.Refs) != len(expected) {
		return fmt.Errorf("proof %s references %d entries, the ledger holds %d for %s as of %s",
			p.ID, len(p.Refs), len(expected), p.Asset, p.AsOf)
	}

	figure := M(decimal.Zero, l.Currency())
	state := AssetState(0)
	for i, ref := range p.Refs {
		e := expected[i]
		if ref.Seq != e.Seq {
			return fmt.Errorf("proof %s: reference %d is entry %d, the ledger expects %d", p.ID, i, ref.Seq, e.Seq)
		}
		if ref.Digest != e.Digest {
			return fmt.Errorf("proof %s: entry %d digest does not match the ledger", p.ID, ref.Seq)
		}
		figure = figure.Add(e.Event.Delta())
		state = stateAfter(state, e.Event)
	}
	if !figure.Equal(p.Figure) {
		return fmt.Errorf("proof %s: figure %s does not re-derive, got %s", p.ID, p.Figure, figure)
	}
	if state != p.State {
		return fmt.Errorf("proof %s: state %s does not re-derive, got %s", p.ID, p.State, state)
	}
	hash, err := p.computeHash()
	if err != nil {
		return err
	}
	if hash != p.Hash {
		return fmt.Errorf("proof %s: hash does not match its content", p.ID)
	}
	return nil
}
