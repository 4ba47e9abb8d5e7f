package attendance

import "strings"

// Status is the display label of an attendance status.
type Status string

const (
	Present   Status = "Present"
	Late      Status = "Late"
	HalfDay   Status = "HalfDay"
	Excused   Status = "Excused"
	Unexcused Status = "Unexcused"

	// NoStatus marks a record the API returned without a status. It has no wire code.
	NoStatus Status = ""
)

// statuses is indexed by wire code.
var statuses = []Status{Present, Late, HalfDay, Excused, Unexcused}

// Statuses lists the recognized labels in wire-code order.
func Statuses() []Status {
	return append([]Status(nil), statuses...)
}

// StatusToCode maps a label to its wire code. Unknown labels map to Unexcused's code;
// that fallback is for display only and is not a validation result.
func StatusToCode(s Status) int {
	for code, known := range statuses {
		if known == s {
			return code
		}
	}
	return 4
}

// CodeToStatus maps a wire code to its label, defaulting to Unexcused.
func CodeToStatus(code int) Status {
	if code < 0 || code >= len(statuses) {
		return Unexcused
	}
	return statuses[code]
}

// ParseStatus accepts a label case-insensitively, with or without spaces ("Half Day").
func ParseStatus(s string) (Status, bool) {
	norm := strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	for _, known := range statuses {
		if strings.EqualFold(string(known), norm) {
			return known, true
		}
	}
	return NoStatus, false
}

// Valid reports whether s is one of the five recognized labels.
func (s Status) Valid() bool {
	for _, known := range statuses {
		if known == s {
			return true
		}
	}
	return false
}

// Label is the human-readable form.
func (s Status) Label() string {
	switch s {
	case HalfDay:
		return "Half Day"
	case NoStatus:
		return "No Status"
	default:
		return string(s)
	}
}
