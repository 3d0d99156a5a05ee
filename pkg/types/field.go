package types

import (
	"time"
	"unicode/utf8"
)

// birthdayLayout is the textual form of a Birthday.
const birthdayLayout = "2006-01-02"

// Name is a contact name. The zero value is not a valid Name; use NewName.
type Name struct {
	value string
}

// NewName returns a Name holding v.
// Returns ErrInvalidName if v is empty.
func NewName(v string) (Name, error) {
	var n Name
	if err := n.Set(v); err != nil {
		return Name{}, err
	}
	return n, nil
}

// Set replaces the name. On ErrInvalidName the previous value is kept.
func (n *Name) Set(v string) error {
	if v == "" {
		return ErrInvalidName
	}
	n.value = v
	return nil
}

// Value returns the held name.
func (n Name) Value() string { return n.value }

func (n Name) String() string { return n.value }

// Phone is a phone number held as text. Only textual validity is checked
// here; the digits-only rule for user input is enforced by the command layer.
type Phone struct {
	value string
}

// NewPhone returns a Phone holding v.
// Returns ErrInvalidPhone if v is not valid UTF-8.
func NewPhone(v string) (Phone, error) {
	var p Phone
	if err := p.Set(v); err != nil {
		return Phone{}, err
	}
	return p, nil
}

// Set replaces the phone. On ErrInvalidPhone the previous value is kept.
func (p *Phone) Set(v string) error {
	if !utf8.ValidString(v) {
		return ErrInvalidPhone
	}
	p.value = v
	return nil
}

// Value returns the held phone.
func (p Phone) Value() string { return p.value }

func (p Phone) String() string { return p.value }

// Birthday is an optional calendar date. The zero value is an unset birthday.
// A set Birthday is always normalized to midnight UTC.
type Birthday struct {
	date time.Time
	set  bool
}

// NewBirthday returns a Birthday for the given calendar date.
// Returns ErrInvalidBirthday if the date does not exist (for example Feb 30).
func NewBirthday(year int, month time.Month, day int) (Birthday, error) {
	var b Birthday
	if err := b.Set(year, month, day); err != nil {
		return Birthday{}, err
	}
	return b, nil
}

// BirthdayOf returns the Birthday falling on t's calendar date in t's location.
func BirthdayOf(t time.Time) Birthday {
	y, m, d := t.Date()
	return Birthday{date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), set: true}
}

// Set replaces the birthday. On ErrInvalidBirthday the previous value is kept.
func (b *Birthday) Set(year int, month time.Month, day int) error {
	if month < time.January || month > time.December || day < 1 {
		return ErrInvalidBirthday
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (Feb 30 becomes Mar 2); reject that.
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return ErrInvalidBirthday
	}
	b.date = t
	b.set = true
	return nil
}

// Clear unsets the birthday.
func (b *Birthday) Clear() {
	*b = Birthday{}
}

// IsSet reports whether a birthday is present.
func (b Birthday) IsSet() bool { return b.set }

// Date returns the birthday and true, or the zero time and false when unset.
func (b Birthday) Date() (time.Time, bool) {
	return b.date, b.set
}

// String returns the birthday as YYYY-MM-DD, or "" when unset.
func (b Birthday) String() string {
	if !b.set {
		return ""
	}
	return b.date.Format(birthdayLayout)
}
