package intcap

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/intcap/intcap/date"
)

// ChainError reports a hash-chain break at a specific entry. Verification
// reports; it never repairs. A broken chain is evidence, and evidence is
// left exactly as found.
type ChainError struct {
	Seq    uint64
	Reason string
}

func (e *ChainError) Error() string {
	return fmt.Sprintf("chain broken at entry %d: %s", e.Seq, e.Reason)
}

// BalanceError reports a period whose derived journal does not balance.
type BalanceError struct {
	Period  date.Range
	Debits  Money
	Credits Money
}

func (e *BalanceError) Error() string {
	return fmt.Sprintf("period %s does not balance: %s debited against %s credited", e.Period, e.Debits, e.Credits)
}

// OrphanError reports a utilization whose attribution owner does not
// match the asset's owning unit.
type OrphanError struct {
	Seq   uint64
	Asset uuid.UUID
	Owner string
	Unit  string
}

func (e *OrphanError) Error() string {
	if e.Owner == "" && e.Unit == "" {
		return fmt.Sprintf("entry %d: no causal reference for asset %s", e.Seq, e.Asset)
	}
	return fmt.Sprintf("entry %d: attribution owner %q does not match owner %q of asset %s", e.Seq, e.Owner, e.Unit, e.Asset)
}

// VerifyChain recomputes every digest in [from, to] and checks each
// entry's back-link and sequence continuity. It returns the first break
// found, as a *ChainError.
func VerifyChain(ctx context.Context, l *Ledger, from, to uint64) error {
	prevDigest := ""
	prevSeq := uint64(0)
	if from > 1 {
		anchor, ok := l.Entry(from - 1)
		if !ok {
			return &ChainError{Seq: from, Reason: fmt.Sprintf("no anchor entry %d", from-1)}
		}
		prevDigest = anchor.Digest
		prevSeq = anchor.Seq
	}
	for seq, e := range l.Entries(from, to) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if prevSeq != 0 && e.Seq != prevSeq+1 {
			return &ChainError{Seq: seq, Reason: fmt.Sprintf("sequence jumps from %d to %d", prevSeq, e.Seq)}
		}
		if e.Prev != prevDigest {
			return &ChainError{Seq: seq, Reason: fmt.Sprintf("back-link %q does not match previous digest %q", e.Prev, prevDigest)}
		}
		digest, err := e.computeDigest()
		if err != nil {
			return &ChainError{Seq: seq, Reason: err.Error()}
		}
		if digest != e.Digest {
			return &ChainError{Seq: seq, Reason: "stored digest does not match recomputed digest"}
		}
		prevDigest = e.Digest
		prevSeq = e.Seq
	}
	return nil
}

// VerifyBalance derives the journal for the period and checks that its
// debit and credit totals agree, returning a *BalanceError otherwise.
func VerifyBalance(ctx context.Context, l *Ledger, period date.Range) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := DeriveBatch(l, period)
	if err != nil {
		return err
	}
	if !b.Debits.Equal(b.Credits) {
		return &BalanceError{Period: period, Debits: b.Debits, Credits: b.Credits}
	}
	return nil
}

// VerifyOwnership checks the causal references in [from, to]. Every kind
// except system-initiated depreciation and reconciliation must carry one,
// and a utilization's attribution owner must additionally match the
// owning unit of its asset. It returns a *OrphanError for the first
// violation.
func VerifyOwnership(ctx context.Context, l *Ledger, from, to uint64) error {
	for seq, e := range l.Entries(from, to) {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch e.Event.Kind() {
		case KindCapitalize, KindAllocate, KindRetire:
			if e.Event.Ref().IsZero() {
				return &OrphanError{Seq: seq, Asset: e.Event.Asset()}
			}
		case KindUtilize:
			ref := e.Event.Ref()
			if ref.IsZero() {
				return &OrphanError{Seq: seq, Asset: e.Event.Asset()}
			}
			a, found := l.Asset(e.Event.Asset())
			if !found {
				return &OrphanError{Seq: seq, Asset: e.Event.Asset(), Owner: ref.Owner}
			}
			if ref.Owner != a.Unit {
				return &OrphanError{Seq: seq, Asset: e.Event.Asset(), Owner: ref.Owner, Unit: a.Unit}
			}
		}
	}
	return nil
}

// Check runs the full integrity suite over the whole ledger: hash chain,
// per-period balance for every month touched by an entry, and ownership.
func Check(ctx context.Context, l *Ledger) error {
	if err := VerifyChain(ctx, l, 0, 0); err != nil {
		return err
	}
	seen := make(map[date.Range]bool)
	for _, e := range l.Entries(0, 0) {
		period := date.NewRange(e.Event.When(), date.Monthly)
		if seen[period] {
			continue
		}
		seen[period] = true
		if err := VerifyBalance(ctx, l, period); err != nil {
			return err
		}
	}
	return VerifyOwnership(ctx, l, 0, 0)
}
