package controller

import (
	"time"

	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/util"
)

// window parses a start/end pair. Plain dates open at the start of the first
// day and close at the end of the last.
func window(startField, start, endField, end string) (time.Time, time.Time, error) {
	var fields []util.FieldError
	s, err := util.ParseStart(start)
	if err != nil {
		fields = append(fields, util.FieldError{Field: startField, Error: "must be a date (2006-01-02) or RFC 3339 time"})
	}
	e, err := util.ParseDeadline(end)
	if err != nil {
		fields = append(fields, util.FieldError{Field: endField, Error: "must be a date (2006-01-02) or RFC 3339 time"})
	}
	if len(fields) > 0 {
		return time.Time{}, time.Time{}, util.NewValidationError("invalid dates", fields...)
	}
	return s, e, nil
}
