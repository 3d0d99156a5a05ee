package command

import "regexp"

var (
	nameRe  = regexp.MustCompile(`^[A-Za-z ]+$`)
	phoneRe = regexp.MustCompile(`^[0-9]+$`)
)

// checkName returns a user-facing rejection message, or "" if name is
// acceptable.
func checkName(name string) string {
	if !nameRe.MatchString(name) {
		return MsgInvalidName
	}
	return ""
}

// checkPhone returns a user-facing rejection message, or "" if phone is
// acceptable.
func checkPhone(phone string) string {
	if !phoneRe.MatchString(phone) {
		return MsgInvalidPhone
	}
	return ""
}

// checkContact validates a name/phone pair, name first.
func checkContact(name, phone string) string {
	if msg := checkName(name); msg != "" {
		return msg
	}
	return checkPhone(phone)
}

// contactFunc is a command taking a name and a phone.
type contactFunc func(name, phone string) string

// validated wraps fn so it only runs when name and phone pass validation.
func validated(fn contactFunc) contactFunc {
	return func(name, phone string) string {
		if msg := checkContact(name, phone); msg != "" {
			return msg
		}
		return fn(name, phone)
	}
}
