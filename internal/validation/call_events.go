package validation

import (
	"encoding/json"
	"fmt"
	"time"
)

// ParsedEvent is a call event that passed shape validation.
type ParsedEvent struct {
	Timestamp time.Time
	Converted bool
}

// ShapeError reports the first defect found in an uploaded batch. Index is -1
// for top-level defects (payload is not an array).
type ShapeError struct {
	Index int
	Msg   string
}

func (e *ShapeError) Error() string { return e.Msg }

// Accepted timestamp layouts. RFC3339 first; the rest cover the laxer forms
// commonly found in exported call logs.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ValidateCallEvents validates an untrusted JSON value into a list of call
// events. Pure function of its input; all-or-nothing — the first defect
// aborts the whole batch.
func ValidateCallEvents(raw json.RawMessage) ([]ParsedEvent, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || string(raw) == "null" {
		return nil, &ShapeError{Index: -1, Msg: "JSON must be an array of call events"}
	}

	events := make([]ParsedEvent, 0, len(items))
	for i, item := range items {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(item, &obj); err != nil || obj == nil {
			return nil, &ShapeError{Index: i, Msg: fmt.Sprintf("Event at index %d is not an object", i)}
		}

		var tsStr string
		rawTS, ok := obj["timestamp"]
		if !ok || json.Unmarshal(rawTS, &tsStr) != nil {
			return nil, &ShapeError{Index: i, Msg: fmt.Sprintf("Missing or invalid timestamp at index %d", i)}
		}
		ts, err := parseTimestamp(tsStr)
		if err != nil {
			return nil, &ShapeError{Index: i, Msg: fmt.Sprintf("Invalid ISO timestamp at index %d", i)}
		}

		var converted bool
		rawConv, ok := obj["converted"]
		if !ok || json.Unmarshal(rawConv, &converted) != nil {
			return nil, &ShapeError{Index: i, Msg: fmt.Sprintf("Missing or invalid converted flag at index %d", i)}
		}

		events = append(events, ParsedEvent{Timestamp: ts, Converted: converted})
	}
	return events, nil
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
}
