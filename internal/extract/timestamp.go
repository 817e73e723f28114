package extract

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// TimestampLayout is the device's MM/DD/YYYY hh:mm:ssAM/PM format. Single
// digit months, days and hours are accepted as well.
const TimestampLayout = "1/2/2006 3:04:05PM"

// timestampShape rejects what time.Parse tolerates beyond the layout: hour 00
// on the 12-hour clock and fractional seconds.
var timestampShape = regexp.MustCompile(
	`^(0?[1-9]|1[0-2])/(0?[1-9]|[12]\d|3[01])/\d{4} (0?[1-9]|1[0-2]):[0-5]\d:[0-5]\d[AP]M$`)

var errTimestampShape = errors.New("unexpected timestamp shape")

// TimestampError reports a cell that does not match TimestampLayout. It
// aborts the whole extraction.
type TimestampError struct {
	Input string
	Err   error
}

func (e *TimestampError) Error() string {
	return fmt.Sprintf("timestamp %q does not match format MM/DD/YYYY hh:mm:ssAM/PM", e.Input)
}

func (e *TimestampError) Unwrap() error { return e.Err }

// ParseTimestamp parses a device timestamp as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	in := strings.TrimSpace(s)
	upper := strings.ToUpper(in)
	if !timestampShape.MatchString(upper) {
		return time.Time{}, &TimestampError{Input: in, Err: errTimestampShape}
	}
	t, err := time.ParseInLocation(TimestampLayout, upper, time.UTC)
	if err != nil {
		return time.Time{}, &TimestampError{Input: in, Err: err}
	}
	return t, nil
}
