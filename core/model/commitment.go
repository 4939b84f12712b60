package model

import "time"

// commitmentKeys are the fields a commitment record may expose its
// timestamp under, in lookup order.
var commitmentKeys = []string{"dueDate", "date", "start"}

// commitmentLayouts are the accepted wire formats for commitment timestamps.
var commitmentLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"}

// CommitmentTimes resolves duck-typed commitment records into a normalized
// timestamp list. A record contributes the first of its dueDate, date or
// start fields that parses; records without an extractable timestamp are
// dropped since they can never register as a conflict.
func CommitmentTimes(records []map[string]any) []time.Time {
	var out []time.Time
	for _, rec := range records {
		if t, ok := extractTime(rec); ok {
			out = append(out, t)
		}
	}
	return out
}

// AssignmentTimes converts stored assignments into commitment timestamps
// using their due dates.
func AssignmentTimes(assignments []Assignment) []time.Time {
	out := make([]time.Time, 0, len(assignments))
	for _, a := range assignments {
		if !a.DueDate.IsZero() {
			out = append(out, a.DueDate)
		}
	}
	return out
}

func extractTime(rec map[string]any) (time.Time, bool) {
	for _, key := range commitmentKeys {
		v, ok := rec[key]
		if !ok {
			continue
		}
		switch tv := v.(type) {
		case time.Time:
			return tv, true
		case string:
			for _, layout := range commitmentLayouts {
				if t, err := time.ParseInLocation(layout, tv, time.Local); err == nil {
					return t, true
				}
			}
		}
	}
	return time.Time{}, false
}
