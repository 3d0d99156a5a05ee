package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/addressbook/pkg/types"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration and storage",
		Long: "Create the configuration and data directories, write config.yaml if it\n" +
			"is missing, and save an empty address book if none exists.",
		Args: cobra.NoArgs,
		RunE: a.runInit,
	}
}

func (a *app) runInit(cmd *cobra.Command, _ []string) error {
	// Only explicit choices are recorded; resolved defaults stay implicit.
	cf := configFile{Backend: a.cfg.Backend, File: a.flags.file}
	if a.flags.dataDir != "" {
		abs, err := filepath.Abs(a.flags.dataDir)
		if err != nil {
			return sysError(err)
		}
		cf.DataDir = abs
	}
	if _, err := writeConfigIfMissing(a.configDir, cf); err != nil {
		return sysError(fmt.Errorf("write config: %w", err))
	}
	if err := os.MkdirAll(a.cfg.DataDir, 0o755); err != nil {
		return sysError(fmt.Errorf("create data directory: %w", err))
	}

	b, closeBook, err := a.openBook()
	if err != nil {
		return err
	}
	defer closeBook()

	switch err := b.LoadFromDisk(); {
	case errors.Is(err, types.ErrNoPriorData):
		if err := b.SaveToDisk(); err != nil {
			return sysError(fmt.Errorf("initialize storage: %w", err))
		}
	case err != nil:
		return sysError(fmt.Errorf("open existing address book: %w", err))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Address book initialized at %s\n", b.Path())
	return nil
}
