package types

import (
	"time"

	"github.com/google/uuid"
)

// Record is one contact: a name, an ordered list of phone numbers, and an
// optional birthday. Phones are raw strings; duplicates are allowed and
// insertion order is preserved.
type Record struct {
	RecordID string   // UUID v7, generated on creation; survives renames.
	Name     Name     // Contact name (required).
	Phones   []string // Phone numbers in insertion order.
	Birthday Birthday // Optional birthday.
}

// NewRecord creates a record for the given name with no phones and no
// birthday. Returns ErrInvalidName if name is empty.
func NewRecord(name string) (*Record, error) {
	n, err := NewName(name)
	if err != nil {
		return nil, err
	}
	return &Record{
		RecordID: newRecordID(),
		Name:     n,
		Phones:   []string{},
	}, nil
}

// newRecordID generates a UUID v7, falling back to v4 if v7 generation fails.
func newRecordID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// EnsureID assigns a RecordID if the record has none.
func (r *Record) EnsureID() {
	if r.RecordID == "" {
		r.RecordID = newRecordID()
	}
}

// AddPhone appends phone. There is no uniqueness or format check.
func (r *Record) AddPhone(phone string) {
	r.Phones = append(r.Phones, phone)
}

// RemovePhone removes the first entry equal to phone. No-op if absent.
func (r *Record) RemovePhone(phone string) {
	for i, p := range r.Phones {
		if p == phone {
			r.Phones = append(r.Phones[:i], r.Phones[i+1:]...)
			return
		}
	}
}

// EditPhone replaces the first entry equal to oldPhone with newPhone.
// No-op if oldPhone is absent.
func (r *Record) EditPhone(oldPhone, newPhone string) {
	for i, p := range r.Phones {
		if p == oldPhone {
			r.Phones[i] = newPhone
			return
		}
	}
}

// SetPhones replaces the whole phone list.
func (r *Record) SetPhones(phones ...string) {
	r.Phones = append([]string{}, phones...)
}

// HasPhone reports whether phone is in the list.
func (r *Record) HasPhone(phone string) bool {
	for _, p := range r.Phones {
		if p == phone {
			return true
		}
	}
	return false
}

// SetBirthday replaces the birthday. Pass the zero Birthday to unset it.
func (r *Record) SetBirthday(b Birthday) {
	r.Birthday = b
}

// DaysToBirthday returns the number of calendar days from today's date to the
// next occurrence of the birthday's month and day, and true. If that date has
// already passed this year, next year's occurrence is used; a birthday on
// today's month and day yields 0. Returns 0 and false when no birthday is set.
//
// A Feb 29 birthday is observed on Mar 1 in non-leap years.
func (r *Record) DaysToBirthday(today time.Time) (int, bool) {
	bd, ok := r.Birthday.Date()
	if !ok {
		return 0, false
	}

	y, m, d := today.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	next := time.Date(y, bd.Month(), bd.Day(), 0, 0, 0, 0, time.UTC)
	if next.Before(start) {
		next = time.Date(y+1, bd.Month(), bd.Day(), 0, 0, 0, 0, time.UTC)
	}

	return int(next.Sub(start).Hours() / 24), true
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	cp := *r
	cp.Phones = append([]string{}, r.Phones...)
	return &cp
}
