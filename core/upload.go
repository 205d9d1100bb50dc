package core

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// allowed upload content types & the extension they are stored with
var uploadExtensions = map[string]string{
	"image/png":       ".png",
	"image/jpeg":      ".jpg",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

// ReadUpload reads a client file fully (up to maxSize bytes) and sniffs its content type.
// Validation failures are reported against `field`.
func ReadUpload(field, filename string, r io.Reader, maxSize int64) (*Upload, error) {
	var buff bytes.Buffer
	n, err := io.Copy(&buff, io.LimitReader(r, maxSize+1))
	if err != nil {
		return nil, errors.Wrap(err, "reading upload")
	}
	if n == 0 {
		return nil, NewValidationError(nil, FieldError{Field: field, Error: "the submitted file is empty"})
	}
	if n > maxSize {
		return nil, NewValidationError(nil, FieldError{
			Field: field,
			Error: fmt.Sprintf("file too large (max %d MiB)", maxSize>>20),
		})
	}

	content := buff.Bytes()
	contentType := strings.SplitN(http.DetectContentType(content), ";", 2)[0]
	if _, ok := uploadExtensions[contentType]; !ok {
		return nil, NewValidationError(nil, FieldError{Field: field, Error: "unsupported file type; allowed: images and PDF"})
	}

	return &Upload{
		Filename:    path.Base(CleanString(filename)),
		ContentType: contentType,
		Size:        n,
		Content:     bytes.NewReader(content),
	}, nil
}

// UploadKey returns a unique storage key for an upload: `<kind>/<uuid><ext>`.
func UploadKey(kind string, up Upload) string {
	return kind + "/" + uuid.New().String() + uploadExtensions[up.ContentType]
}
