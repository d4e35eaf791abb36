package intcap

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/intcap/intcap/date"
	"github.com/shopspring/decimal"
)

// Event kinds as persisted in the ledger.
const (
	KindCapitalize = "capitalize"
	KindAllocate   = "allocate"
	KindUtilize    = "utilize"
	KindDepreciate = "depreciate"
	KindRetire     = "retire"
	KindReconcile  = "reconcile"
)

// CapitalEvent is the closed set of economic events an asset can record.
// Events are immutable once appended; corrections are made with new
// reconciliation events, never by edits.
type CapitalEvent interface {
	Kind() string
	When() date.Date
	Asset() uuid.UUID
	// Delta is the signed effect of the event on the asset's book value.
	// Allocation and utilization are account transfers and return zero.
	Delta() Money
	Ref() Attribution
	By() string
	MarshalJSON() ([]byte, error)
	// validate checks the event against the current ledger state. It is
	// called by the ledger under its write lock, before sequencing.
	validate(l *Ledger) error
}

// baseEvent carries the fields shared by every event kind.
type baseEvent struct {
	AssetID     uuid.UUID
	On          date.Date
	Actor       string // who initiated the event
	Memo        string
	Attribution Attribution
}

func (b baseEvent) When() date.Date  { return b.On }
func (b baseEvent) Asset() uuid.UUID { return b.AssetID }
func (b baseEvent) Ref() Attribution { return b.Attribution }
func (b baseEvent) By() string       { return b.Actor }

// embed writes the shared fields in their canonical order.
func (b baseEvent) embed(kind string, w *jsonObjectWriter) {
	w.Append("kind", kind)
	w.Append("asset", b.AssetID)
	w.Append("on", b.On)
	w.Optional("by", b.Actor)
	w.Optional("memo", b.Memo)
	if !b.Attribution.IsZero() {
		w.Append("ref", b.Attribution)
	}
}

// checkCommon validates the fields every kind requires.
func (b baseEvent) checkCommon(l *Ledger) error {
	if b.AssetID == uuid.Nil {
		return fmt.Errorf("%w: missing asset id", ErrValidation)
	}
	if b.On.IsZero() {
		return fmt.Errorf("%w: missing event date", ErrValidation)
	}
	return nil
}

// Capitalize records the creation of an intelligence asset from attributed
// development cost.
type Capitalize struct {
	baseEvent
	Unit   string // owning business unit
	Value  Money
	Method DepreciationMethod
}

// NewCapitalize creates a capitalization event for a new asset.
func NewCapitalize(id uuid.UUID, on date.Date, unit string, value Money, method DepreciationMethod, ref Attribution, by string) Capitalize {
	return Capitalize{
		baseEvent: baseEvent{AssetID: id, On: on, Actor: by, Attribution: ref},
		Unit:      unit,
		Value:     value,
		Method:    method,
	}
}

func (e Capitalize) Kind() string { return KindCapitalize }
func (e Capitalize) Delta() Money { return e.Value }

func (e Capitalize) validate(l *Ledger) error {
	if err := e.checkCommon(l); err != nil {
		return err
	}
	if l.asset(e.AssetID) != nil {
		return fmt.Errorf("%w: asset %s already capitalized", ErrValidation, e.AssetID)
	}
	if e.Unit == "" {
		return fmt.Errorf("%w: capitalization needs an owning business unit", ErrValidation)
	}
	if !e.Value.IsPositive() {
		return fmt.Errorf("%w: capitalized value must be positive, got %s", ErrValidation, e.Value)
	}
	if e.Method == nil {
		return fmt.Errorf("%w: capitalization needs a depreciation method", ErrValidation)
	}
	if e.Method.MethodFloor().GreaterThan(e.Value) {
		return fmt.Errorf("%w: depreciation floor %s exceeds capitalized value %s", ErrValidation, e.Method.MethodFloor(), e.Value)
	}
	if e.Attribution.IsZero() {
		return fmt.Errorf("%w: capitalization needs an attribution reference", ErrValidation)
	}
	return nil
}

func (e Capitalize) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	e.embed(KindCapitalize, &w)
	w.Append("unit", e.Unit)
	w.Append("value", e.Value)
	w.Append("method", e.Method)
	return w.MarshalJSON()
}

// Allocate assigns part of an asset's value to a consuming business unit.
// Allocation moves value between capital accounts; the book value is
// unchanged.
type Allocate struct {
	baseEvent
	Unit   string // consuming business unit
	Amount Money
}

// NewAllocate creates an allocation event.
func NewAllocate(id uuid.UUID, on date.Date, unit string, amount Money, ref Attribution, by string) Allocate {
	return Allocate{
		baseEvent: baseEvent{AssetID: id, On: on, Actor: by, Attribution: ref},
		Unit:      unit,
		Amount:    amount,
	}
}

func (e Allocate) Kind() string { return KindAllocate }
func (e Allocate) Delta() Money { return M(decimal.Zero, e.Amount.Currency()) }

func (e Allocate) validate(l *Ledger) error {
	if err := e.checkCommon(l); err != nil {
		return err
	}
	a := l.asset(e.AssetID)
	if a == nil {
		return fmt.Errorf("%w: unknown asset %s", ErrValidation, e.AssetID)
	}
	switch a.State {
	case Capitalized, Allocated:
	default:
		return fmt.Errorf("%w: cannot allocate a %s asset", ErrValidation, a.State)
	}
	if e.Unit == "" {
		return fmt.Errorf("%w: allocation needs a consuming business unit", ErrValidation)
	}
	if !e.Amount.IsPositive() {
		return fmt.Errorf("%w: allocation amount must be positive, got %s", ErrValidation, e.Amount)
	}
	if a.Allocated.Add(e.Amount).GreaterThan(a.BookValue) {
		return fmt.Errorf("%w: allocation %s exceeds unallocated book value %s", ErrValidation, e.Amount, a.BookValue.Sub(a.Allocated))
	}
	if e.Attribution.IsZero() {
		return fmt.Errorf("%w: allocation needs an attribution reference", ErrValidation)
	}
	return nil
}

func (e Allocate) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	e.embed(KindAllocate, &w)
	w.Append("unit", e.Unit)
	w.Append("amount", e.Amount)
	return w.MarshalJSON()
}

// Utilize records consumption of allocated value by attributed execution.
// Like allocation it is an account transfer: the book value is unchanged.
type Utilize struct {
	baseEvent
	Amount Money
}

// NewUtilize creates a utilization event.
func NewUtilize(id uuid.UUID, on date.Date, amount Money, ref Attribution, by string) Utilize {
	return Utilize{
		baseEvent: baseEvent{AssetID: id, On: on, Actor: by, Attribution: ref},
		Amount:    amount,
	}
}

func (e Utilize) Kind() string { return KindUtilize }
func (e Utilize) Delta() Money { return M(decimal.Zero, e.Amount.Currency()) }

func (e Utilize) validate(l *Ledger) error {
	if err := e.checkCommon(l); err != nil {
		return err
	}
	a := l.asset(e.AssetID)
	if a == nil {
		return fmt.Errorf("%w: unknown asset %s", ErrValidation, e.AssetID)
	}
	switch a.State {
	case Allocated, Utilized, Depreciating:
	default:
		return fmt.Errorf("%w: cannot utilize a %s asset", ErrValidation, a.State)
	}
	if !e.Amount.IsPositive() {
		return fmt.Errorf("%w: utilization amount must be positive, got %s", ErrValidation, e.Amount)
	}
	if e.Attribution.IsZero() {
		return fmt.Errorf("%w: utilization needs an attribution reference", ErrValidation)
	}
	if e.Attribution.Owner != a.Unit {
		return fmt.Errorf("%w: attribution owner %q does not match asset owner %q", ErrOwnership, e.Attribution.Owner, a.Unit)
	}
	if e.Amount.GreaterThan(a.Available()) {
		return fmt.Errorf("%w: utilization %s exceeds available allocation %s", ErrValidation, e.Amount, a.Available())
	}
	return nil
}

func (e Utilize) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	e.embed(KindUtilize, &w)
	w.Append("amount", e.Amount)
	return w.MarshalJSON()
}

// Depreciate records the value decay for one closed accounting period.
// It is the only event kind initiated by the system rather than by an
// attributed fact, so its attribution reference may be absent.
type Depreciate struct {
	baseEvent
	Amount Money
	Period date.Range
}

// NewDepreciate creates a depreciation event for a closed period.
func NewDepreciate(id uuid.UUID, on date.Date, amount Money, period date.Range, by string) Depreciate {
	return Depreciate{
		baseEvent: baseEvent{AssetID: id, On: on, Actor: by},
		Amount:    amount,
		Period:    period,
	}
}

func (e Depreciate) Kind() string { return KindDepreciate }
func (e Depreciate) Delta() Money { return e.Amount.Neg() }

func (e Depreciate) validate(l *Ledger) error {
	if err := e.checkCommon(l); err != nil {
		return err
	}
	a := l.asset(e.AssetID)
	if a == nil {
		return fmt.Errorf("%w: unknown asset %s", ErrValidation, e.AssetID)
	}
	switch a.State {
	case Utilized, Depreciating:
	default:
		return fmt.Errorf("%w: cannot depreciate a %s asset", ErrValidation, a.State)
	}
	if !e.Amount.IsPositive() {
		return fmt.Errorf("%w: depreciation amount must be positive, got %s", ErrValidation, e.Amount)
	}
	if e.Period.From.IsZero() || e.Period.To.IsZero() || e.Period.To.Before(e.Period.From) {
		return fmt.Errorf("%w: invalid depreciation period %s", ErrValidation, e.Period)
	}
	for _, p := range l.periods(e.AssetID) {
		if p.Overlaps(e.Period) {
			return fmt.Errorf("%w: period %s overlaps already depreciated period %s", ErrValidation, e.Period, p)
		}
	}
	if e.Amount.GreaterThan(a.BookValue.Sub(a.Method.MethodFloor())) {
		return fmt.Errorf("%w: depreciation %s would cross the floor %s", ErrValidation, e.Amount, a.Method.MethodFloor())
	}
	return nil
}

func (e Depreciate) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	e.embed(KindDepreciate, &w)
	w.Append("amount", e.Amount)
	w.Append("period", e.Period)
	return w.MarshalJSON()
}

// Retire writes off an asset's remaining book value and makes the asset
// terminal. After retirement only reconciliation events are accepted.
type Retire struct {
	baseEvent
	WriteOff Money
}

// NewRetire creates a retirement event writing off the given amount.
func NewRetire(id uuid.UUID, on date.Date, writeOff Money, ref Attribution, by string) Retire {
	return Retire{
		baseEvent: baseEvent{AssetID: id, On: on, Actor: by, Attribution: ref},
		WriteOff:  writeOff,
	}
}

func (e Retire) Kind() string { return KindRetire }
func (e Retire) Delta() Money { return e.WriteOff.Neg() }

func (e Retire) validate(l *Ledger) error {
	if err := e.checkCommon(l); err != nil {
		return err
	}
	a := l.asset(e.AssetID)
	if a == nil {
		return fmt.Errorf("%w: unknown asset %s", ErrValidation, e.AssetID)
	}
	if a.Terminal() {
		return fmt.Errorf("%w: asset %s is already retired", ErrValidation, e.AssetID)
	}
	if e.Attribution.IsZero() {
		return fmt.Errorf("%w: retirement needs an attribution reference", ErrValidation)
	}
	if e.WriteOff.IsNegative() {
		return fmt.Errorf("%w: write-off must not be negative, got %s", ErrValidation, e.WriteOff)
	}
	if !e.WriteOff.Equal(a.BookValue) {
		return fmt.Errorf("%w: write-off %s must match remaining book value %s", ErrValidation, e.WriteOff, a.BookValue)
	}
	return nil
}

func (e Retire) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	e.embed(KindRetire, &w)
	w.Append("writeOff", e.WriteOff)
	return w.MarshalJSON()
}

// Reconcile records an explicit correction of prior entries. The referenced
// entries stay untouched; the correction is itself a first-class,
// hash-chained event. Reconciliation is the only kind accepted on a
// retired asset.
type Reconcile struct {
	baseEvent
	Amount Money    // signed adjustment to the book value
	Refs   []uint64 // sequence numbers of the entries being corrected
}

// NewReconcile creates a reconciliation event adjusting the book value by
// the signed amount, correcting the referenced entries.
func NewReconcile(id uuid.UUID, on date.Date, amount Money, refs []uint64, memo, by string) Reconcile {
	return Reconcile{
		baseEvent: baseEvent{AssetID: id, On: on, Actor: by, Memo: memo},
		Amount:    amount,
		Refs:      refs,
	}
}

func (e Reconcile) Kind() string { return KindReconcile }
func (e Reconcile) Delta() Money { return e.Amount }

func (e Reconcile) validate(l *Ledger) error {
	if err := e.checkCommon(l); err != nil {
		return err
	}
	a := l.asset(e.AssetID)
	if a == nil {
		return fmt.Errorf("%w: unknown asset %s", ErrValidation, e.AssetID)
	}
	if len(e.Refs) == 0 {
		return fmt.Errorf("%w: reconciliation needs at least one corrected entry", ErrValidation)
	}
	for _, seq := range e.Refs {
		ref, ok := l.entry(seq)
		if !ok {
			return fmt.Errorf("%w: reconciliation references unknown entry %d", ErrValidation, seq)
		}
		if ref.Event.Asset() != e.AssetID {
			return fmt.Errorf("%w: entry %d belongs to another asset", ErrValidation, seq)
		}
	}
	if e.Amount.IsZero() {
		return fmt.Errorf("%w: reconciliation adjustment must not be zero", ErrValidation)
	}
	if a.BookValue.Add(e.Amount).IsNegative() {
		return fmt.Errorf("%w: adjustment %s would make the book value negative", ErrValidation, e.Amount)
	}
	return nil
}

func (e Reconcile) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	e.embed(KindReconcile, &w)
	w.Append("amount", e.Amount)
	w.Append("refs", e.Refs)
	return w.MarshalJSON()
}
