package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/addressbook/internal/command"
	"github.com/mesh-intelligence/addressbook/internal/repl"
)

var errRejected = errors.New("command rejected")

func newExecCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "exec <command> [args...]",
		Short: "Run one address book command",
		Long: "Run a single command line as typed at the interactive prompt, for\n" +
			"example: addressbook exec add alice 12345",
		Args: cobra.MinimumNArgs(1),
		RunE: a.runExec,
	}
}

func (a *app) runExec(cmd *cobra.Command, args []string) error {
	b, closeBook, err := a.openBook()
	if err != nil {
		return err
	}
	defer closeBook()

	s := repl.New(b)
	if notice := s.Load(); notice != "" && notice != command.MsgNoPriorData {
		fmt.Fprintln(cmd.ErrOrStderr(), notice)
	}

	result, _ := s.Execute(strings.Join(args, " "))
	fmt.Fprintln(cmd.OutOrStdout(), result)
	if command.Rejected(result) {
		return userError(errRejected)
	}
	return nil
}
