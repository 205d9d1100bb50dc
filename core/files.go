package core

import (
	"context"
	"io"
)

// Upload is a file received from a client, not yet persisted.
type Upload struct {
	Filename    string
	ContentType string // sniffed from the content, not the client header
	Size        int64
	Content     io.ReadSeeker
}

// FileStore persists uploaded files and returns the URL they are served from.
type FileStore interface {
	Save(ctx context.Context, key string, up Upload) (url string, err error)
	Delete(ctx context.Context, url string) error
}
