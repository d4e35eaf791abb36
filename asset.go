package intcap

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/intcap/intcap/date"
)

// AssetState is the lifecycle state of an intelligence asset.
type AssetState int

const (
	// Capitalized is the initial state: the asset carries a book value
	// but none of it is assigned to a business unit yet.
	Capitalized AssetState = iota
	// Allocated means value has been assigned to a consuming business unit.
	Allocated
	// Utilized means allocated capacity was consumed against attributed execution.
	Utilized
	// Depreciating means an accounting period was closed over the asset.
	Depreciating
	// Retired is terminal; only reconciliation events are accepted afterwards.
	Retired
)

func (s AssetState) String() string {
	switch s {
	case Capitalized:
		return "capitalized"
	case Allocated:
		return "allocated"
	case Utilized:
		return "utilized"
	case Depreciating:
		return "depreciating"
	case Retired:
		return "retired"
	default:
		return "unknown"
	}
}

// ParseAssetState parses a string into an AssetState.
func ParseAssetState(s string) (AssetState, error) {
	switch s {
	case "capitalized":
		return Capitalized, nil
	case "allocated":
		return Allocated, nil
	case "utilized":
		return Utilized, nil
	case "depreciating":
		return Depreciating, nil
	case "retired":
		return Retired, nil
	default:
		return 0, fmt.Errorf("unknown asset state: %q", s)
	}
}

func (s AssetState) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

func (s *AssetState) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}
	v, err := ParseAssetState(str)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// IntelligenceAsset is a capitalized unit of intelligence capability.
//
// State, book value and the allocation figures are derived from the event
// chain and maintained as an index by the ledger; they are never
// authoritative on their own and can always be recomputed from entries.
type IntelligenceAsset struct {
	ID            uuid.UUID
	Unit          string // owning business unit
	CapitalizedOn date.Date
	InitialValue  Money
	Method        DepreciationMethod
	State         AssetState
	BookValue     Money // initial value minus depreciation, plus reconciliations
	Allocated     Money // value assigned to business units
	Utilized      Money // allocated value consumed by attributed execution
}

// Terminal reports whether the asset accepts no further events except
// reconciliation.
func (a IntelligenceAsset) Terminal() bool { return a.State == Retired }

// Available returns the allocated value not yet consumed by utilization.
func (a IntelligenceAsset) Available() Money { return a.Allocated.Sub(a.Utilized) }
