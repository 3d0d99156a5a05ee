// Package cli implements the addressbook command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/addressbook/internal/paths"
	"github.com/mesh-intelligence/addressbook/internal/repl"
	"github.com/mesh-intelligence/addressbook/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// exitError carries the process exit code for a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(err error) error { return &exitError{code: exitUserError, err: err} }
func sysError(err error) error  { return &exitError{code: exitSysError, err: err} }

// rootFlags holds global flag values for one command tree.
type rootFlags struct {
	configDir string
	dataDir   string
	backend   string
	file      string
	debug     bool
}

// app is the state shared by the commands of one tree.
type app struct {
	flags     rootFlags
	configDir string
	cfg       types.Config
}

// NewRootCmd creates the top-level "addressbook" command with global flags
// and all subcommands registered. Without a subcommand it runs the
// interactive loop on stdin and stdout.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "addressbook",
		Short: "An interactive address book",
		Long: "addressbook keeps named contacts with phone numbers and birthdays.\n" +
			"Run without a subcommand to enter the interactive prompt.",
		Version:           Version,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.resolve,
		RunE:              a.runInteractive,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (env "+paths.EnvConfigDir+")")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "data directory (env "+paths.EnvDataDir+")")
	pf.StringVar(&a.flags.backend, "backend", "", "storage backend: jsonl or sqlite")
	pf.StringVar(&a.flags.file, "file", "", "data file name inside the data directory")
	pf.BoolVar(&a.flags.debug, "debug", false, "write debug logs")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newExecCmd(a))

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	os.Exit(run(NewRootCmd(), os.Stderr))
}

func run(root *cobra.Command, stderr io.Writer) int {
	err := root.Execute()
	if err == nil {
		return exitSuccess
	}
	fmt.Fprintln(stderr, "Error:", err)

	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}

// resolve loads config.yaml and fixes the effective store configuration.
func (a *app) resolve(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return sysError(err)
	}

	dataDir, err := paths.ResolveDataDir(a.flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return sysError(fmt.Errorf("resolve data dir: %w", err))
	}

	cfg := types.Config{
		Backend:  v.GetString(cfgKeyBackend),
		DataDir:  dataDir,
		FileName: v.GetString(cfgKeyFile),
	}
	if a.flags.backend != "" {
		cfg.Backend = a.flags.backend
	}
	if a.flags.file != "" {
		cfg.FileName = a.flags.file
	}
	if err := cfg.Validate(); err != nil {
		return userError(fmt.Errorf("invalid configuration: %w", err))
	}

	a.configDir = configDir
	a.cfg = cfg
	return nil
}

func (a *app) runInteractive(cmd *cobra.Command, _ []string) error {
	b, closeBook, err := a.openBook()
	if err != nil {
		return err
	}
	defer closeBook()

	s := repl.New(b)
	out := cmd.OutOrStdout()
	if notice := s.Load(); notice != "" {
		fmt.Fprintln(out, notice)
	}
	if err := s.Run(cmd.InOrStdin(), out); err != nil {
		return sysError(err)
	}
	return nil
}
