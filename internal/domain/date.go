package domain

import (
	"bytes"
	"fmt"
	"time"
)

// DateLayout is the wire layout of every date the registration API accepts.
const DateLayout = "2006-01-02"

// Date is a calendar date without time of day.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a yyyy-MM-dd string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MarshalJSON writes the date as "yyyy-MM-dd", or null when unset.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	if y := d.Year(); y < 0 || y > 9999 {
		return nil, fmt.Errorf("date year %d outside of range [0,9999]", y)
	}

	buf := make([]byte, 0, len(DateLayout)+2)
	buf = append(buf, '"')
	buf = d.AppendFormat(buf, DateLayout)
	buf = append(buf, '"')
	return buf, nil
}

// UnmarshalJSON accepts "yyyy-MM-dd", RFC 3339 timestamps and null.
func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*d = Date{}
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("date must be a JSON string, got %s", data)
	}

	s := string(data[1 : len(data)-1])
	if s == "" {
		*d = Date{}
		return nil
	}

	if t, err := time.Parse(DateLayout, s); err == nil {
		*d = Date{Time: t}
		return nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("invalid date %q, expected %s", s, "yyyy-MM-dd")
	}
	*d = NewDate(t.Year(), t.Month(), t.Day())
	return nil
}
