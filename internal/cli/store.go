package cli

import (
	"fmt"

	"github.com/mesh-intelligence/addressbook/internal/book"
	"github.com/mesh-intelligence/addressbook/internal/jsonl"
	"github.com/mesh-intelligence/addressbook/internal/logger"
	"github.com/mesh-intelligence/addressbook/internal/sqlite"
	"github.com/mesh-intelligence/addressbook/pkg/types"
)

// newStore builds the store selected by cfg.
func newStore(cfg types.Config) (types.Store, error) {
	switch cfg.Backend {
	case types.BackendJSONL:
		return jsonl.NewStore(cfg.Path()), nil
	case types.BackendSQLite:
		return sqlite.NewStore(cfg.Path()), nil
	default:
		return nil, types.ErrBackendUnknown
	}
}

// openBook installs the file logger and returns an address book over the
// configured store. The caller must call the returned close func.
func (a *app) openBook() (*book.AddressBook, func(), error) {
	stopLog, err := logger.Setup(logger.Config{Dir: a.cfg.DataDir, Debug: a.flags.debug})
	if err != nil {
		return nil, nil, sysError(fmt.Errorf("set up logging: %w", err))
	}

	store, err := newStore(a.cfg)
	if err != nil {
		_ = stopLog()
		return nil, nil, userError(err)
	}

	log := logger.L().With("backend", a.cfg.Backend)
	log.Debug("book.opened", "path", store.Path())

	closeBook := func() {
		if err := store.Close(); err != nil {
			log.Warn("book.close_failed", "path", store.Path(), "err", err)
		}
		_ = stopLog()
	}
	return book.New(store, book.WithLogger(log)), closeBook, nil
}
