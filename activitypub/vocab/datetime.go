package vocab

import (
	"fmt"
	"regexp"
	"time"
)

const (
	// Canonical datetime syntax for published timestamps, for use with [time.Format]. Always UTC, second precision.
	DatetimeLayout = "2006-01-02T15:04:05Z"
)

var datetimeRegex = regexp.MustCompile(`^[0-9]{4}-[01][0-9]-[0-3][0-9]T[0-2][0-9]:[0-6][0-9]:[0-6][0-9](\.[0-9]{1,20})?(Z|([+-][0-2][0-9]:[0-5][0-9]))$`)

// Represents an xsd:dateTime string as used in ActivityStreams "published" and "updated" properties.
//
// Use [ParseDatetime] or [NewDatetime] instead of wrapping strings directly.
type Datetime string

func ParseDatetime(raw string) (Datetime, error) {
	if len(raw) > 64 {
		return "", fmt.Errorf("Datetime too long (max 64 chars)")
	}
	if !datetimeRegex.MatchString(raw) {
		return "", fmt.Errorf("Datetime syntax didn't validate via regex")
	}
	return Datetime(raw), nil
}

// Formats a golang time.Time in canonical syntax (converted to UTC, sub-second precision dropped).
func NewDatetime(t time.Time) Datetime {
	return Datetime(t.UTC().Format(DatetimeLayout))
}

func (d Datetime) Time() (time.Time, error) {
	return time.Parse(time.RFC3339Nano, d.String())
}

func (d Datetime) String() string {
	return string(d)
}

func (d Datetime) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Datetime) UnmarshalText(text []byte) error {
	datetime, err := ParseDatetime(string(text))
	if err != nil {
		return err
	}
	*d = datetime
	return nil
}
