package intcap

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// DepreciationMethod is the closed set of supported value-decay methods.
// Each method is a variant with its own parameters; ComputeDepreciation
// matches the set exhaustively, so adding a method is a compile-time
// checked extension point.
type DepreciationMethod interface {
	Name() string
	// MethodFloor is the book value the method never depreciates past.
	MethodFloor() Money
	Equal(DepreciationMethod) bool
	json.Marshaler
}

// Method names used for persistence and CLI selection.
const (
	MethodStraightLine     = "straight-line"
	MethodDecliningBalance = "declining-balance"
	MethodUsageBased       = "usage-based"
)

// StraightLine depreciates a constant amount per elapsed period until the floor.
type StraightLine struct {
	PerPeriod Money
	Floor     Money
}

func (m StraightLine) Name() string       { return MethodStraightLine }
func (m StraightLine) MethodFloor() Money { return m.Floor }

func (m StraightLine) Equal(o DepreciationMethod) bool {
	v, ok := o.(StraightLine)
	return ok && m.PerPeriod.Equal(v.PerPeriod) && m.Floor.Equal(v.Floor)
}

func (m StraightLine) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("name", m.Name())
	w.Append("perPeriod", m.PerPeriod)
	w.Append("floor", m.Floor)
	return w.MarshalJSON()
}

// DecliningBalance depreciates a percentage of the current book value per period.
type DecliningBalance struct {
	Rate  decimal.Decimal // per-period rate, e.g. 0.2 for 20%
	Floor Money
}

func (m DecliningBalance) Name() string       { return MethodDecliningBalance }
func (m DecliningBalance) MethodFloor() Money { return m.Floor }

func (m DecliningBalance) Equal(o DepreciationMethod) bool {
	v, ok := o.(DecliningBalance)
	return ok && m.Rate.Equal(v.Rate) && m.Floor.Equal(v.Floor)
}

func (m DecliningBalance) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("name", m.Name())
	w.Append("rate", m.Rate)
	w.Append("floor", m.Floor)
	return w.MarshalJSON()
}

// UsageBased depreciates proportionally to a utilization metric supplied
// by the caller at period closure.
type UsageBased struct {
	PerUnit Money // depreciation per unit of the utilization metric
	Floor   Money
}

func (m UsageBased) Name() string       { return MethodUsageBased }
func (m UsageBased) MethodFloor() Money { return m.Floor }

func (m UsageBased) Equal(o DepreciationMethod) bool {
	v, ok := o.(UsageBased)
	return ok && m.PerUnit.Equal(v.PerUnit) && m.Floor.Equal(v.Floor)
}

func (m UsageBased) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("name", m.Name())
	w.Append("perUnit", m.PerUnit)
	w.Append("floor", m.Floor)
	return w.MarshalJSON()
}

// ComputeDepreciation returns the value decay for an asset with the given
// book value over a number of elapsed periods, using the supplied method
// and utilization metric (consulted by usage-based methods only).
//
// The function is pure: no wall-clock reads, no randomness, no hidden
// state. Identical inputs always produce an identical amount, which is
// the reproducibility guarantee the rest of the system builds on. The
// result is clamped so the book value never crosses the method's floor.
func ComputeDepreciation(book Money, method DepreciationMethod, elapsed int, usage decimal.Decimal) (Money, error) {
	if method == nil {
		return Money{}, fmt.Errorf("%w: missing depreciation method", ErrValidation)
	}
	if elapsed < 0 {
		return Money{}, fmt.Errorf("%w: elapsed periods must not be negative, got %d", ErrValidation, elapsed)
	}
	floor := method.MethodFloor()
	if floor.IsNegative() {
		return Money{}, fmt.Errorf("%w: depreciation floor must not be negative, got %s", ErrValidation, floor)
	}
	if book.LessThan(floor) {
		return Money{}, fmt.Errorf("%w: book value %s is below the floor %s", ErrValidation, book, floor)
	}

	var total Money
	switch m := method.(type) {
	case StraightLine:
		if !m.PerPeriod.IsPositive() {
			return Money{}, fmt.Errorf("%w: straight-line amount per period must be positive, got %s", ErrValidation, m.PerPeriod)
		}
		total = m.PerPeriod.MulInt(int64(elapsed))
	case DecliningBalance:
		if !m.Rate.IsPositive() || m.Rate.GreaterThan(decimal.NewFromInt(1)) {
			return Money{}, fmt.Errorf("%w: declining-balance rate must be in (0,1], got %s", ErrValidation, m.Rate)
		}
		// Period by period: each period depreciates a fraction of the
		// remaining book value, stopping at the floor.
		current := book
		total = M(decimal.Zero, book.Currency())
		for i := 0; i < elapsed; i++ {
			step := current.MulDec(m.Rate)
			if current.Sub(step).LessThan(floor) {
				total = total.Add(current.Sub(floor))
				break
			}
			total = total.Add(step)
			current = current.Sub(step)
		}
	case UsageBased:
		if !m.PerUnit.IsPositive() {
			return Money{}, fmt.Errorf("%w: usage-based amount per unit must be positive, got %s", ErrValidation, m.PerUnit)
		}
		if usage.IsNegative() {
			return Money{}, fmt.Errorf("%w: utilization metric must not be negative, got %s", ErrValidation, usage)
		}
		total = m.PerUnit.MulDec(usage)
	default:
		return Money{}, fmt.Errorf("unhandled depreciation method: %T", method)
	}

	// Clamp: never depreciate past the floor.
	room := book.Sub(floor)
	if total.GreaterThan(room) {
		total = room
	}
	if total.IsNegative() {
		total = M(decimal.Zero, book.Currency())
	}
	return total, nil
}

// methodField is a specialized struct for decoding any method variant.
type methodField struct {
	Name      string          `json:"name"`
	PerPeriod amountField     `json:"perPeriod"`
	Rate      decimal.Decimal `json:"rate"`
	PerUnit   amountField     `json:"perUnit"`
	Floor     amountField     `json:"floor"`
}

func (f methodField) Method() (DepreciationMethod, error) {
	switch f.Name {
	case MethodStraightLine:
		return StraightLine{PerPeriod: f.PerPeriod.Money(), Floor: f.Floor.Money()}, nil
	case MethodDecliningBalance:
		return DecliningBalance{Rate: f.Rate, Floor: f.Floor.Money()}, nil
	case MethodUsageBased:
		return UsageBased{PerUnit: f.PerUnit.Money(), Floor: f.Floor.Money()}, nil
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown depreciation method: %q", f.Name)
	}
}

// ParseDepreciationMethod builds a method from its name and parameters,
// used by the CLI surface.
func ParseDepreciationMethod(name string, amount Money, rate decimal.Decimal, floor Money) (DepreciationMethod, error) {
	switch name {
	case MethodStraightLine:
		return StraightLine{PerPeriod: amount, Floor: floor}, nil
	case MethodDecliningBalance:
		return DecliningBalance{Rate: rate, Floor: floor}, nil
	case MethodUsageBased:
		return UsageBased{PerUnit: amount, Floor: floor}, nil
	default:
		return nil, fmt.Errorf("unknown depreciation method: %q", name)
	}
}
