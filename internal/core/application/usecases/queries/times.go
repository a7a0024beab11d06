package queries

import "time"

// normalizeTimes converts scanned timestamps to UTC in place. Nil pointers
// are skipped.
func normalizeTimes(required *time.Time, optional ...*time.Time) {
	if required != nil {
		*required = required.UTC()
	}
	for _, t := range optional {
		if t != nil {
			*t = t.UTC()
		}
	}
}
