package storage

import (
	"errors"
	"fmt"

	"github.com/julianstephens/daybook/internal/constants"
	"github.com/julianstephens/daybook/internal/keyring"
	"github.com/julianstephens/daybook/internal/logger"
	"github.com/julianstephens/daybook/internal/storage/diskv"
	"github.com/julianstephens/daybook/internal/storage/postgres"
	"github.com/julianstephens/daybook/internal/storage/sqlite"
)

var ErrUnknownBackend = errors.New("unknown storage backend")

type Options struct {
	Backend string
	// Path is the sqlite database file or the diskv directory.
	Path string
	// DSN is the postgres connection string. Empty means read it from the keyring.
	DSN string
}

// New builds the provider for opts without touching the backing store.
// Call Init or Load on the result.
func New(opts Options) (Provider, error) {
	switch opts.Backend {
	case constants.BackendSQLite, "":
		if opts.Path == "" {
			return nil, errors.New("sqlite backend requires a path")
		}
		return sqlite.NewStore(opts.Path), nil
	case constants.BackendDiskv:
		if opts.Path == "" {
			return nil, errors.New("diskv backend requires a path")
		}
		return diskv.New(opts.Path), nil
	case constants.BackendPostgres:
		dsn, err := resolveDSN(opts.DSN)
		if err != nil {
			return nil, err
		}
		// Passwords are only tolerated when the DSN lives in the keyring.
		err = postgres.ValidateConnString(dsn)
		if errors.Is(err, postgres.ErrEmbeddedCredentials) && opts.DSN == "" {
			err = nil
		}
		if err != nil {
			return nil, err
		}
		return postgres.New(dsn), nil
	case constants.BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}

func resolveDSN(dsn string) (string, error) {
	if dsn != "" {
		return dsn, nil
	}
	stored, err := keyring.DSN().Get()
	if err != nil {
		logger.Debug("no postgres connection string in keyring", "error", err)
		return "", fmt.Errorf("postgres backend needs storage.dsn or a keyring entry (run '%s keyring set'): %w", constants.AppName, err)
	}
	return stored, nil
}
