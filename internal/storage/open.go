package storage

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/rohankatakam/teamgraph/internal/errors"
)

// Options selects and locates a store
type Options struct {
	Type        string // sqlite, postgres or none
	LocalPath   string
	PostgresDSN string
}

// Open creates the store named by opts.Type. Type "none" returns
// ErrDisabled.
func Open(opts Options, logger *logrus.Logger) (Store, error) {
	switch opts.Type {
	case "sqlite", "":
		return NewSQLiteStore(opts.LocalPath, logger)
	case "postgres":
		return NewPostgresStore(opts.PostgresDSN, logger)
	case "none":
		return nil, ErrDisabled
	default:
		return nil, errors.New(errors.ErrorTypeConfig, errors.SeverityHigh,
			fmt.Sprintf("unknown storage type %q", opts.Type))
	}
}
