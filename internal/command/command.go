// Package command implements the address book commands. Each command takes
// an AddressBook and plain arguments and returns the text to show the user;
// expected failures (bad input, unknown contact) are messages, not errors.
package command

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/addressbook/internal/book"
	"github.com/mesh-intelligence/addressbook/pkg/types"
)

// Fixed user-facing messages.
const (
	MsgGreeting        = "How can I help you?"
	MsgFarewell        = "Goodbye!"
	MsgInvalidCommand  = "Invalid command. Please try again."
	MsgNoContacts      = "No contacts found."
	MsgInvalidName     = "Invalid input. Name can only contain English letters and spaces."
	MsgInvalidPhone    = "Invalid input. Phone number can only contain digits."
	MsgInvalidBirthday = "Invalid input. Birthday must be a date in YYYY-MM-DD format."
	MsgNoPriorData     = "No previous data found. Starting with an empty address book."
)

// Rejected reports whether msg is the answer to input that was refused
// before any command ran: an unknown command or an invalid argument.
func Rejected(msg string) bool {
	switch msg {
	case MsgInvalidCommand, MsgInvalidName, MsgInvalidPhone, MsgInvalidBirthday:
		return true
	}
	return false
}

// NotFound returns the message for a contact that is not in the book.
func NotFound(name string) string {
	return fmt.Sprintf("Contact %s does not exist.", name)
}

// LoadFailed returns the message for a failed load.
func LoadFailed(err error) string {
	return fmt.Sprintf("Error occurred while loading from disk: %v", err)
}

// SaveFailed returns the message for a failed save.
func SaveFailed(err error) string {
	return fmt.Sprintf("Error occurred while saving to disk: %v", err)
}

func failed(err error) string {
	return fmt.Sprintf("Operation failed: %v.", err)
}

// Hello returns the greeting.
func Hello() string {
	return MsgGreeting
}

// Add registers a fresh record for name holding only phone, replacing any
// record already stored under name.
func Add(b *book.AddressBook, name, phone string) string {
	return validated(func(name, phone string) string {
		rec, err := types.NewRecord(name)
		if err != nil {
			return failed(err)
		}
		p, err := types.NewPhone(phone)
		if err != nil {
			return failed(err)
		}
		rec.AddPhone(p.Value())
		if err := b.AddRecord(rec); err != nil {
			return failed(err)
		}
		return fmt.Sprintf("Contact %s with phone number %s has been added.", name, phone)
	})(name, phone)
}

// Change replaces the whole phone list of an existing contact with phone.
func Change(b *book.AddressBook, name, phone string) string {
	return validated(func(name, phone string) string {
		rec, ok := b.Get(name)
		if !ok {
			return NotFound(name)
		}
		p, err := types.NewPhone(phone)
		if err != nil {
			return failed(err)
		}
		rec.SetPhones(p.Value())
		if err := b.Touch(name); err != nil {
			return failed(err)
		}
		return fmt.Sprintf("Phone number for contact %s has been updated to %s.", name, phone)
	})(name, phone)
}

// Phone lists the phone numbers of a contact.
func Phone(b *book.AddressBook, name string) string {
	rec, ok := b.Get(name)
	if !ok {
		return NotFound(name)
	}
	return fmt.Sprintf("Phone number for contact %s: %s", name, strings.Join(rec.Phones, ", "))
}

// ShowAll lists every contact in insertion order.
func ShowAll(b *book.AddressBook) string {
	records := b.Records()
	if len(records) == 0 {
		return MsgNoContacts
	}
	lines := make([]string, 0, len(records))
	for _, r := range records {
		lines = append(lines, fmt.Sprintf("%s: %s", r.Name.Value(), strings.Join(r.Phones, ", ")))
	}
	return "Contacts:\n" + strings.Join(lines, "\n")
}

// AddPhone appends phone to an existing contact.
func AddPhone(b *book.AddressBook, name, phone string) string {
	return validated(func(name, phone string) string {
		rec, ok := b.Get(name)
		if !ok {
			return NotFound(name)
		}
		rec.AddPhone(phone)
		if err := b.Touch(name); err != nil {
			return failed(err)
		}
		return fmt.Sprintf("Phone number %s has been added to contact %s.", phone, name)
	})(name, phone)
}

// RemovePhone removes phone from an existing contact. Removing a number the
// contact does not have changes nothing.
func RemovePhone(b *book.AddressBook, name, phone string) string {
	return validated(func(name, phone string) string {
		rec, ok := b.Get(name)
		if !ok {
			return NotFound(name)
		}
		if !rec.HasPhone(phone) {
			return fmt.Sprintf("Contact %s has no phone number %s.", name, phone)
		}
		rec.RemovePhone(phone)
		if err := b.Touch(name); err != nil {
			return failed(err)
		}
		return fmt.Sprintf("Phone number %s has been removed from contact %s.", phone, name)
	})(name, phone)
}

// EditPhone replaces oldPhone with newPhone on an existing contact.
func EditPhone(b *book.AddressBook, name, oldPhone, newPhone string) string {
	if msg := checkPhone(newPhone); msg != "" {
		return msg
	}
	return validated(func(name, oldPhone string) string {
		rec, ok := b.Get(name)
		if !ok {
			return NotFound(name)
		}
		if !rec.HasPhone(oldPhone) {
			return fmt.Sprintf("Contact %s has no phone number %s.", name, oldPhone)
		}
		rec.EditPhone(oldPhone, newPhone)
		if err := b.Touch(name); err != nil {
			return failed(err)
		}
		return fmt.Sprintf("Phone number %s for contact %s has been changed to %s.", oldPhone, name, newPhone)
	})(name, oldPhone)
}

// SetBirthday parses date as YYYY-MM-DD and stores it on an existing contact.
func SetBirthday(b *book.AddressBook, name, date string) string {
	if msg := checkName(name); msg != "" {
		return msg
	}
	rec, ok := b.Get(name)
	if !ok {
		return NotFound(name)
	}
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return MsgInvalidBirthday
	}
	bd, err := types.NewBirthday(t.Year(), t.Month(), t.Day())
	if err != nil {
		return MsgInvalidBirthday
	}
	rec.SetBirthday(bd)
	if err := b.Touch(name); err != nil {
		return failed(err)
	}
	return fmt.Sprintf("Birthday for contact %s has been set to %s.", name, bd)
}

// DaysToBirthday reports the days from today until the contact's next
// birthday.
func DaysToBirthday(b *book.AddressBook, name string, today time.Time) string {
	rec, ok := b.Get(name)
	if !ok {
		return NotFound(name)
	}
	days, ok := rec.DaysToBirthday(today)
	if !ok {
		return fmt.Sprintf("Birthday for contact %s is unknown.", name)
	}
	return fmt.Sprintf("Days until birthday for contact %s: %d", name, days)
}

// Delete removes a contact.
func Delete(b *book.AddressBook, name string) string {
	if err := b.RemoveByName(name); err != nil {
		if errors.Is(err, types.ErrContactNotFound) {
			return NotFound(name)
		}
		return failed(err)
	}
	return fmt.Sprintf("Contact %s has been deleted.", name)
}

// Rename moves a contact to a new name. A contact already stored under the
// new name is replaced.
func Rename(b *book.AddressBook, oldName, newName string) string {
	if msg := checkName(newName); msg != "" {
		return msg
	}
	if err := b.EditRecordName(oldName, newName); err != nil {
		if errors.Is(err, types.ErrContactNotFound) {
			return NotFound(oldName)
		}
		return failed(err)
	}
	return fmt.Sprintf("Contact %s has been renamed to %s.", oldName, newName)
}
