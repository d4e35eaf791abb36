package intcap

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/intcap/intcap/date"
	"github.com/shopspring/decimal"
)

// Lifecycle drives an asset through its states by constructing events and
// appending them to the ledger. It holds no state of its own: every
// operation reads the ledger, builds one event, and appends it.
type Lifecycle struct {
	Ledger *Ledger
}

// Capitalize creates a new asset from an attributed development cost and
// returns its capitalization entry. The asset id is generated here and
// carried by every later event of the asset.
func (lc Lifecycle) Capitalize(on date.Date, unit string, value Money, method DepreciationMethod, ref Attribution, by string) (Entry, error) {
	ev := NewCapitalize(uuid.New(), on, unit, value, method, ref, by)
	return lc.Ledger.Append(ev)
}

// Allocate assigns part of the asset's value to a consuming business unit.
func (lc Lifecycle) Allocate(asset uuid.UUID, on date.Date, unit string, amount Money, ref Attribution, by string) (Entry, error) {
	return lc.Ledger.Append(NewAllocate(asset, on, unit, amount, ref, by))
}

// Utilize records consumption of allocated value, justified by an
// attribution record. A record whose owner cannot be resolved is rejected
// with ErrOwnership before it reaches the ledger; unowned executions are
// never capitalized silently.
func (lc Lifecycle) Utilize(asset uuid.UUID, on date.Date, amount Money, ref Attribution, by string) (Entry, error) {
	if ref.Owner == "" {
		return Entry{}, fmt.Errorf("%w: attribution record %s/%s has no resolvable owner", ErrOwnership, ref.Source, ref.Record)
	}
	return lc.Ledger.Append(NewUtilize(asset, on, amount, ref, by))
}

// ClosePeriod computes and records one period of depreciation for the
// asset. The amount comes from the asset's method applied to its current
// book value; usage feeds usage-based methods and is ignored otherwise.
// A period that yields no depreciation (book already at the floor) is
// rejected rather than recorded as a zero entry.
func (lc Lifecycle) ClosePeriod(asset uuid.UUID, period date.Range, usage decimal.Decimal, by string) (Entry, error) {
	a, ok := lc.Ledger.Asset(asset)
	if !ok {
		return Entry{}, fmt.Errorf("%w: unknown asset %s", ErrValidation, asset)
	}
	amount, err := ComputeDepreciation(a.BookValue, a.Method, 1, usage)
	if err != nil {
		return Entry{}, err
	}
	if amount.IsZero() {
		return Entry{}, fmt.Errorf("%w: asset %s is fully depreciated, nothing to close for %s", ErrValidation, asset, period)
	}
	return lc.Ledger.Append(NewDepreciate(asset, period.To, amount, period, by))
}

// Retire writes off the asset's remaining book value and makes it
// terminal.
func (lc Lifecycle) Retire(asset uuid.UUID, on date.Date, ref Attribution, by string) (Entry, error) {
	a, ok := lc.Ledger.Asset(asset)
	if !ok {
		return Entry{}, fmt.Errorf("%w: unknown asset %s", ErrValidation, asset)
	}
	return lc.Ledger.Append(NewRetire(asset, on, a.BookValue, ref, by))
}

// Reconcile appends a signed correction referencing one or more prior
// entries. The referenced entries stay untouched; the correction is a
// first-class entry of its own, accepted even on retired assets.
func (lc Lifecycle) Reconcile(asset uuid.UUID, on date.Date, amount Money, refs []uint64, memo, by string) (Entry, error) {
	return lc.Ledger.Append(NewReconcile(asset, on, amount, refs, memo, by))
}
