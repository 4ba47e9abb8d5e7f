package attendance

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Azure/go-autorest/autorest/date"
)

// WireDateLayout is the date format used in query strings, payloads and natural keys.
const WireDateLayout = "2006-01-02"

// MidnightWire is substituted when the API requires a time field the user left empty.
const MidnightWire = "00:00:00"

var (
	ErrInvalidTime = errors.New("invalid time of day")
	ErrInvalidDate = errors.New("invalid date")
)

// FormatTimeForWire converts "HH:MM" or "HH:MM:SS" input to "HH:MM:SS". Single-digit hours are
// zero-padded. Empty input stays empty.
func FormatTimeForWire(input string) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", nil
	}
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return "", fmt.Errorf("%w: %q", ErrInvalidTime, input)
	}
	limits := []int{23, 59, 59}
	vals := []int{0, 0, 0}
	for i, p := range parts {
		if len(p) == 0 || len(p) > 2 || (i > 0 && len(p) != 2) {
			return "", fmt.Errorf("%w: %q", ErrInvalidTime, input)
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > limits[i] {
			return "", fmt.Errorf("%w: %q", ErrInvalidTime, input)
		}
		vals[i] = n
	}
	return fmt.Sprintf("%02d:%02d:%02d", vals[0], vals[1], vals[2]), nil
}

// WireTimeOrMidnight is FormatTimeForWire for fields the API contract requires.
func WireTimeOrMidnight(input string) (string, error) {
	s, err := FormatTimeForWire(input)
	if err != nil {
		return "", err
	}
	if s == "" {
		return MidnightWire, nil
	}
	return s, nil
}

// FormatTimeForDisplay shortens a wire time to "HH:MM".
func FormatTimeForDisplay(wire string) string {
	if norm, err := FormatTimeForWire(wire); err == nil {
		wire = norm
	}
	if len(wire) > 5 {
		return wire[:5]
	}
	return wire
}

// FormatDateForWire renders the calendar day of t, in t's own location, as YYYY-MM-DD.
func FormatDateForWire(t time.Time) string {
	return t.Format(WireDateLayout)
}

// ParseWireDate reads the calendar day from "YYYY-MM-DD", "YYYY-MM-DDTHH:MM:SS" or RFC3339 input.
// The day is taken literally from the string; no timezone conversion is applied.
func ParseWireDate(s string) (date.Date, error) {
	s = strings.TrimSpace(s)
	if len(s) < len(WireDateLayout) {
		return date.Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	if rest := s[len(WireDateLayout):]; rest != "" && rest[0] != 'T' && rest[0] != ' ' {
		return date.Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	d, err := date.ParseDate(s[:len(WireDateLayout)])
	if err != nil {
		return date.Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d, nil
}
