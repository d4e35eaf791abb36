package intcap

import (
	"encoding/json"

	"github.com/intcap/intcap/date"
	"github.com/shopspring/decimal"
)

// Attribution is the causal reference to an upstream attribution record:
// the already-validated fact that justifies an economic event. The engine
// treats it as opaque; it never recomputes attribution.
type Attribution struct {
	Source string          // source system identifier
	Record string          // attribution record identifier
	Owner  string          // owner resolved by the attribution system
	Metric decimal.Decimal // amount or usage metric carried by the record
	On     date.Date
}

// IsZero reports whether the reference is absent. Only reconciliation and
// system-initiated depreciation events may carry an absent reference.
func (a Attribution) IsZero() bool {
	return a.Source == "" && a.Record == "" && a.Owner == "" && a.Metric.IsZero() && a.On.IsZero()
}

func (a Attribution) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("source", a.Source)
	w.Append("record", a.Record)
	w.Append("owner", a.Owner)
	w.Append("metric", a.Metric)
	w.Append("on", a.On)
	return w.MarshalJSON()
}

func (a *Attribution) UnmarshalJSON(b []byte) error {
	var temp struct {
		Source string          `json:"source"`
		Record string          `json:"record"`
		Owner  string          `json:"owner"`
		Metric decimal.Decimal `json:"metric"`
		On     date.Date       `json:"on"`
	}
	if err := json.Unmarshal(b, &temp); err != nil {
		return err
	}
	a.Source = temp.Source
	a.Record = temp.Record
	a.Owner = temp.Owner
	a.Metric = temp.Metric
	a.On = temp.On
	return nil
}
