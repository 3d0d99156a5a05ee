// Package repl runs the interactive command loop: read a line, dispatch it
// to the command layer, print the result, until an exit word is entered.
package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/benbjohnson/clock"

	"github.com/mesh-intelligence/addressbook/internal/book"
	"github.com/mesh-intelligence/addressbook/internal/command"
	"github.com/mesh-intelligence/addressbook/pkg/types"
)

// Prompt is printed before each read.
const Prompt = "Enter a command: "

// exitWords end the session after saving.
var exitWords = map[string]bool{
	"good":  true,
	"bye":   true,
	"close": true,
	"exit":  true,
	".":     true,
}

// handler runs a command; args excludes the verb.
type handler struct {
	arity int // number of tokens including the verb; 0 accepts any
	run   func(s *Session, args []string) string
}

var handlers = map[string]handler{
	"hello": {0, func(s *Session, _ []string) string {
		return command.Hello()
	}},
	"add": {3, func(s *Session, a []string) string {
		return command.Add(s.book, a[0], a[1])
	}},
	"change": {3, func(s *Session, a []string) string {
		return command.Change(s.book, a[0], a[1])
	}},
	"phone": {2, func(s *Session, a []string) string {
		return command.Phone(s.book, a[0])
	}},
	"show": {2, func(s *Session, a []string) string {
		if a[0] == "all" {
			return command.ShowAll(s.book)
		}
		return command.Phone(s.book, a[0])
	}},
	"birthday": {3, func(s *Session, a []string) string {
		return command.SetBirthday(s.book, a[0], a[1])
	}},
	"days": {2, func(s *Session, a []string) string {
		return command.DaysToBirthday(s.book, a[0], s.clock.Now())
	}},
	"delete": {2, func(s *Session, a []string) string {
		return command.Delete(s.book, a[0])
	}},
	"rename": {3, func(s *Session, a []string) string {
		return command.Rename(s.book, a[0], a[1])
	}},
	"add-phone": {3, func(s *Session, a []string) string {
		return command.AddPhone(s.book, a[0], a[1])
	}},
	"remove-phone": {3, func(s *Session, a []string) string {
		return command.RemovePhone(s.book, a[0], a[1])
	}},
	"edit-phone": {4, func(s *Session, a []string) string {
		return command.EditPhone(s.book, a[0], a[1], a[2])
	}},
}

// Session binds the loop to one address book.
type Session struct {
	book  *book.AddressBook
	clock clock.Clock
}

// Option configures a Session.
type Option func(*Session)

// WithClock sets the clock used for birthday calculations.
func WithClock(c clock.Clock) Option {
	return func(s *Session) { s.clock = c }
}

// New returns a session over b.
func New(b *book.AddressBook, opts ...Option) *Session {
	s := &Session{book: b, clock: clock.New()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load rehydrates the book from disk and returns a notice for the user, or
// "" when prior data was loaded.
func (s *Session) Load() string {
	err := s.book.LoadFromDisk()
	switch {
	case err == nil:
		return ""
	case errors.Is(err, types.ErrNoPriorData):
		return command.MsgNoPriorData
	default:
		return command.LoadFailed(err)
	}
}

// Execute runs one command line and returns the text to print and whether
// the session is over. The line is lowercased and split on whitespace.
func (s *Session) Execute(line string) (string, bool) {
	tokens := strings.Fields(strings.ToLower(line))
	if len(tokens) == 0 {
		return command.MsgInvalidCommand, false
	}

	verb := tokens[0]
	if exitWords[verb] {
		return s.exit(), true
	}

	h, ok := handlers[verb]
	if !ok || (h.arity != 0 && len(tokens) != h.arity) {
		return command.MsgInvalidCommand, false
	}
	return h.run(s, tokens[1:]), false
}

func (s *Session) exit() string {
	if err := s.book.SaveToDisk(); err != nil {
		return command.SaveFailed(err) + "\n" + command.MsgFarewell
	}
	return command.MsgFarewell
}

// Run reads commands from in until an exit word or end of input, writing
// prompts and results to out. Lines have no length limit. End of input is
// handled like "exit"; a read error also saves and says goodbye before it is
// returned.
func (s *Session) Run(in io.Reader, out io.Writer) error {
	r := bufio.NewReader(in)
	for {
		if _, err := fmt.Fprint(out, Prompt); err != nil {
			return err
		}

		line, readErr := r.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			fmt.Fprintln(out, "\n"+s.exit())
			return fmt.Errorf("reading input: %w", readErr)
		}
		if readErr != nil && line == "" {
			_, err := fmt.Fprintln(out, "\n"+s.exit())
			return err
		}

		result, done := s.Execute(strings.TrimRight(line, "\r\n"))
		if _, err := fmt.Fprintln(out, result); err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}
