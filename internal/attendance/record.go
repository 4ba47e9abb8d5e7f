package attendance

import (
	"strconv"

	"github.com/Azure/go-autorest/autorest/date"

	"mentorship/internal/apierr"
)

// Record is one person's attendance on one calendar day.
type Record struct {
	UserID   int
	Date     date.Date
	CheckIn  string // "HH:MM", empty when not recorded
	CheckOut string
	Status   Status
	UserName string
}

// Key is the natural key of a record. At most one record exists per key.
type Key struct {
	UserID int
	Date   date.Date
}

func (k Key) String() string {
	return k.Date.String() + "/" + strconv.Itoa(k.UserID)
}

// Key returns the record's natural key.
func (r Record) Key() Key {
	return Key{UserID: r.UserID, Date: r.Date}
}

// Day reports the record's date, or false when the API sent one that could not be read.
func (r Record) Day() (date.Date, bool) {
	return r.Date, !r.Date.IsZero()
}

// WireRecord is the API representation of a record.
type WireRecord struct {
	ID           *int    `json:"id,omitempty"`
	UserID       int     `json:"userId" validate:"gt=0"`
	Date         string  `json:"date" validate:"required"`
	CheckInTime  *string `json:"checkInTime"`
	CheckOutTime *string `json:"checkOutTime"`
	Status       *int    `json:"status" validate:"required,gte=0,lte=4"`
	FullName     string  `json:"fullName,omitempty"`
}

// FromWire normalizes an API record. An unreadable date leaves Date zero so range filters skip it;
// a missing status becomes NoStatus.
func FromWire(w WireRecord) Record {
	r := Record{UserID: w.UserID, UserName: w.FullName, Status: NoStatus}
	if d, err := ParseWireDate(w.Date); err == nil {
		r.Date = d
	}
	if w.CheckInTime != nil {
		r.CheckIn = FormatTimeForDisplay(*w.CheckInTime)
	}
	if w.CheckOutTime != nil {
		r.CheckOut = FormatTimeForDisplay(*w.CheckOutTime)
	}
	if w.Status != nil {
		r.Status = CodeToStatus(*w.Status)
	}
	return r
}

// ToWire builds the create/update payload. Times are required by the API, so empty ones are sent
// as midnight.
func ToWire(r Record) (WireRecord, error) {
	if !r.Status.Valid() {
		return WireRecord{}, &apierr.ValidationError{Field: "status", Message: "must be one of Present Late HalfDay Excused Unexcused"}
	}
	in, err := WireTimeOrMidnight(r.CheckIn)
	if err != nil {
		return WireRecord{}, &apierr.ValidationError{Field: "checkInTime", Message: "must be HH:MM or HH:MM:SS"}
	}
	out, err := WireTimeOrMidnight(r.CheckOut)
	if err != nil {
		return WireRecord{}, &apierr.ValidationError{Field: "checkOutTime", Message: "must be HH:MM or HH:MM:SS"}
	}
	code := StatusToCode(r.Status)
	w := WireRecord{
		UserID:       r.UserID,
		CheckInTime:  &in,
		CheckOutTime: &out,
		Status:       &code,
	}
	if !r.Date.IsZero() {
		w.Date = r.Date.String()
	}
	return w, nil
}
