// Package viewpayload converts saved view inputs into the stored JSON payload and back.
//
// The stored payload is a loose JSON object. Only the keys below are interpreted; any other
// key is carried through untouched so newer clients can store settings older servers do
// not understand.
package viewpayload

import (
	"encoding/json"
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/vibhusapra/phoenix/internal/pkg/apperr"
	"github.com/vibhusapra/phoenix/internal/pkg/optional"
)

// Recognized payload keys.
const (
	KeyFilterCondition     = "filterCondition"
	KeyTimeRangeKey        = "timeRangeKey"
	KeyTimeRange           = "timeRange"
	KeyTimeRangeStart      = "start"
	KeyTimeRangeEnd        = "end"
	KeyOptions             = "options"
	KeyTreatOrphansAsRoots = "treatOrphansAsRoots"
)

// Input is the sparse set of fields a caller may supply on create or patch.
type Input struct {
	FilterCondition     optional.Field[string] `json:"filterCondition" swaggertype:"string"`
	TimeRangeKey        optional.Field[string] `json:"timeRangeKey" swaggertype:"string" example:"last_24h"`
	TimeRangeStart      optional.Field[string] `json:"timeRangeStart" swaggertype:"string" example:"2025-08-07T00:00:00Z"`
	TimeRangeEnd        optional.Field[string] `json:"timeRangeEnd" swaggertype:"string" example:"2025-08-08T00:00:00Z"`
	TreatOrphansAsRoots optional.Field[bool]   `json:"treatOrphansAsRoots" swaggertype:"boolean"`
}

// FilterToValidate returns the filter expression that must pass validation before the
// delta can be written, or false when the input would not set one.
func (in Input) FilterToValidate() (string, bool) {
	v, ok := in.FilterCondition.Get()
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Delta builds the partial payload holding only the keys the input touches.
func Delta(in Input) (map[string]any, error) {
	delta := map[string]any{}

	if v, ok := in.FilterToValidate(); ok {
		delta[KeyFilterCondition] = v
	}

	if in.TimeRangeKey.Provided() {
		delta[KeyTimeRangeKey] = nullable(in.TimeRangeKey)
	}

	if in.TimeRangeStart.Provided() || in.TimeRangeEnd.Provided() {
		if err := checkTimestamp("timeRangeStart", in.TimeRangeStart); err != nil {
			return nil, err
		}
		if err := checkTimestamp("timeRangeEnd", in.TimeRangeEnd); err != nil {
			return nil, err
		}
		delta[KeyTimeRange] = map[string]any{
			KeyTimeRangeStart: nullable(in.TimeRangeStart),
			KeyTimeRangeEnd:   nullable(in.TimeRangeEnd),
		}
	}

	if v, ok := in.TreatOrphansAsRoots.Get(); ok {
		delta[KeyOptions] = map[string]any{KeyTreatOrphansAsRoots: v}
	}

	return delta, nil
}

// Merge applies delta over stored one level deep. Every top-level key in delta replaces
// the stored key wholesale; nested maps are not merged. stored is not modified.
func Merge(stored, delta map[string]any) map[string]any {
	out := make(map[string]any, len(stored)+len(delta))
	maps.Copy(out, stored)
	maps.Copy(out, delta)
	return out
}

// View is the read-side projection of a stored payload.
type View struct {
	FilterCondition     *string    `json:"filterCondition"`
	TimeRangeKey        *string    `json:"timeRangeKey"`
	TimeRangeStart      *time.Time `json:"timeRangeStart"`
	TimeRangeEnd        *time.Time `json:"timeRangeEnd"`
	TreatOrphansAsRoots *bool      `json:"treatOrphansAsRoots"`
}

// Project maps a stored payload back onto the recognized fields. Missing keys project to
// nil. A timestamp that does not parse fails the whole read.
func Project(payload map[string]any) (View, error) {
	var out View
	if len(payload) == 0 {
		return out, nil
	}

	out.FilterCondition = stringField(payload[KeyFilterCondition])
	out.TimeRangeKey = stringField(payload[KeyTimeRangeKey])

	if tr, ok := payload[KeyTimeRange].(map[string]any); ok {
		start, err := timestampField(tr[KeyTimeRangeStart])
		if err != nil {
			return View{}, apperr.Wrap(apperr.CodeInvalidInput, "timeRange.start is not an ISO-8601 timestamp", err)
		}
		end, err := timestampField(tr[KeyTimeRangeEnd])
		if err != nil {
			return View{}, apperr.Wrap(apperr.CodeInvalidInput, "timeRange.end is not an ISO-8601 timestamp", err)
		}
		out.TimeRangeStart, out.TimeRangeEnd = start, end
	}

	if opts, ok := payload[KeyOptions].(map[string]any); ok {
		if v, present := opts[KeyTreatOrphansAsRoots]; present && v != nil {
			b := truthy(v)
			out.TreatOrphansAsRoots = &b
		}
	}

	return out, nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04Z0700",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
	time.DateOnly,
}

// ParseTimestamp parses the ISO-8601 forms browsers and Python emit. Values without an
// offset are read as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var firstErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

func checkTimestamp(field string, f optional.Field[string]) error {
	v, ok := f.Get()
	if !ok || v == "" {
		return nil
	}
	if _, err := ParseTimestamp(v); err != nil {
		return apperr.Wrap(apperr.CodeInvalidInput, fmt.Sprintf("%s must be an ISO-8601 timestamp", field), err)
	}
	return nil
}

func nullable[T any](f optional.Field[T]) any {
	v, ok := f.Get()
	if !ok {
		return nil
	}
	return v
}

func stringField(v any) *string {
	switch s := v.(type) {
	case nil:
		return nil
	case string:
		return &s
	default:
		str := fmt.Sprint(s)
		return &str
	}
}

func timestampField(v any) (*time.Time, error) {
	switch s := v.(type) {
	case nil:
		return nil, nil
	case string:
		if s == "" {
			return nil, nil
		}
		t, err := ParseTimestamp(s)
		if err != nil {
			return nil, err
		}
		return &t, nil
	default:
		return nil, fmt.Errorf("unexpected %T", v)
	}
}

func truthy(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case float64:
		return b != 0
	case json.Number:
		f, err := b.Float64()
		return err != nil || f != 0
	case string:
		return b != ""
	default:
		return true
	}
}
