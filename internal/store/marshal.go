package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roach88/dualband/internal/reconcile"
)

// marshalJSON serializes a payload with HTML escaping disabled and no
// trailing newline. Struct field order keeps the output deterministic, so
// identical runs produce byte-identical rows.
func marshalJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func unmarshalMeasurements(data string) ([]reconcile.Measurement, error) {
	var ms []reconcile.Measurement
	if err := json.Unmarshal([]byte(data), &ms); err != nil {
		return nil, fmt.Errorf("unmarshal measurements: %w", err)
	}
	return ms, nil
}

func unmarshalIntervals(data string) ([]reconcile.NamedInterval, error) {
	var ivs []reconcile.NamedInterval
	if err := json.Unmarshal([]byte(data), &ivs); err != nil {
		return nil, fmt.Errorf("unmarshal intervals: %w", err)
	}
	return ivs, nil
}
