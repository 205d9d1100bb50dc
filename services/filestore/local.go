package filestore

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/trezcool/itsite/core"
)

// localStore writes uploads under dir; they are served by the API under baseURL.
type localStore struct {
	dir     string
	baseURL string
}

var _ core.FileStore = (*localStore)(nil)

func NewLocalStore(dir, baseURL string) (core.FileStore, error) {
	if err := vala.BeginValidation().Validate(
		vala.StringNotEmpty(dir, "dir"),
		vala.StringNotEmpty(baseURL, "baseURL"),
	).Check(); err != nil {
		return nil, err
	}
	return &localStore{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

func (s *localStore) path(key string) (string, error) {
	clean := path.Clean("/" + key)[1:]
	if clean == "" || clean != key {
		return "", errors.Errorf("invalid file key %q", key)
	}
	return filepath.Join(s.dir, filepath.FromSlash(clean)), nil
}

func (s *localStore) Save(_ context.Context, key string, up core.Upload) (string, error) {
	fp, err := s.path(key)
	if err != nil {
		return "", err
	}
	if err = os.MkdirAll(filepath.Dir(fp), 0o755); err != nil {
		return "", errors.Wrap(err, "creating upload dir")
	}

	f, err := os.OpenFile(fp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", errors.Wrap(err, "creating upload file")
	}
	if _, err = io.Copy(f, up.Content); err != nil {
		_ = f.Close()
		_ = os.Remove(fp)
		return "", errors.Wrap(err, "writing upload file")
	}
	if err = f.Close(); err != nil {
		_ = os.Remove(fp)
		return "", errors.Wrap(err, "closing upload file")
	}
	return s.baseURL + "/" + key, nil
}

// Delete removes a file previously returned by Save. Missing files are ignored.
func (s *localStore) Delete(_ context.Context, url string) error {
	key := strings.TrimPrefix(url, s.baseURL+"/")
	if key == url {
		return errors.Errorf("%q is not a local upload", url)
	}
	fp, err := s.path(key)
	if err != nil {
		return err
	}
	if err = os.Remove(fp); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing upload file")
	}
	return nil
}
