// Package icae adapts attribution-engine exports into ledger inputs, and
// ledger data into downstream export formats. The ledger never recomputes
// attribution: records arrive already validated, and this package only
// locates and checks their fields.
package icae

import (
	"encoding/json"
	"fmt"

	"github.com/PaesslerAG/jsonpath"
	"github.com/intcap/intcap"
	"github.com/intcap/intcap/date"
	"github.com/shopspring/decimal"
)

// Mapping holds the jsonpath expressions locating the attribution fields
// inside a source document. Attribution engines disagree on their export
// shapes; the mapping absorbs the difference.
type Mapping struct {
	Source string
	Record string
	Owner  string
	Metric string
	On     string
}

// DefaultMapping matches the flat export shape.
func DefaultMapping() Mapping {
	return Mapping{
		Source: "$.source",
		Record: "$.record",
		Owner:  "$.owner",
		Metric: "$.metric",
		On:     "$.date",
	}
}

// Parse extracts an attribution reference from a raw JSON document.
// A record with a negative metric is rejected: attributed costs and
// usage figures are never negative.
func (m Mapping) Parse(raw []byte) (intcap.Attribution, error) {
	var jobj any
	if err := json.Unmarshal(raw, &jobj); err != nil {
		return intcap.Attribution{}, fmt.Errorf("%w: attribution document is not JSON: %v", intcap.ErrValidation, err)
	}

	source, err := getString(jobj, m.Source)
	if err != nil {
		return intcap.Attribution{}, err
	}
	record, err := getString(jobj, m.Record)
	if err != nil {
		return intcap.Attribution{}, err
	}
	owner, err := getString(jobj, m.Owner)
	if err != nil {
		return intcap.Attribution{}, err
	}
	metric, err := getDecimal(jobj, m.Metric)
	if err != nil {
		return intcap.Attribution{}, err
	}
	if metric.IsNegative() {
		return intcap.Attribution{}, fmt.Errorf("%w: attribution record %s/%s carries a negative metric %s", intcap.ErrValidation, source, record, metric)
	}
	onStr, err := getString(jobj, m.On)
	if err != nil {
		return intcap.Attribution{}, err
	}
	on, err := date.Parse(onStr)
	if err != nil {
		return intcap.Attribution{}, fmt.Errorf("%w: %v", intcap.ErrValidation, err)
	}

	return intcap.Attribution{
		Source: source,
		Record: record,
		Owner:  owner,
		Metric: metric,
		On:     on,
	}, nil
}

// get evaluates a jsonpath expression against the document.
func get(jobj any, path string) (any, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot evaluate %q: %v", intcap.ErrValidation, path, err)
	}
	// because jsonpath is never clear about whether it returns a list of 1
	// answer or a single answer, keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	return jval, nil
}

func getString(jobj any, path string) (string, error) {
	jval, err := get(jobj, path)
	if err != nil {
		return "", err
	}
	s, ok := jval.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("%w: %q is not a non-empty string, got %v", intcap.ErrValidation, path, jval)
	}
	return s, nil
}

func getDecimal(jobj any, path string) (decimal.Decimal, error) {
	jval, err := get(jobj, path)
	if err != nil {
		return decimal.Decimal{}, err
	}
	switch v := jval.(type) {
	case float64:
		return decimal.NewFromFloat(v), nil
	case string:
		// some engines export figures as strings
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("%w: %q is not a number: %v", intcap.ErrValidation, path, err)
		}
		return d, nil
	default:
		return decimal.Decimal{}, fmt.Errorf("%w: %q is neither a number nor a string, got %T", intcap.ErrValidation, path, jval)
	}
}
