// Package filestore holds the core.FileStore backends.
package filestore

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/itsite/core"
)

const (
	BackendLocal = "local"
	BackendS3    = "s3"
)

// New returns the FileStore selected by conf.Backend.
func New(ctx context.Context, conf core.StorageConfig) (core.FileStore, error) {
	switch conf.Backend {
	case BackendLocal, "":
		return NewLocalStore(conf.LocalDir, conf.BaseURL)
	case BackendS3:
		return NewS3Store(ctx, conf)
	default:
		return nil, errors.Errorf("unknown storage backend %q", conf.Backend)
	}
}
