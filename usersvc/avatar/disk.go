// Package avatar keeps uploaded profile pictures on local disk.
package avatar

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/laxuman02230135/task-management/apperr"
	"github.com/twinj/uuid"
)

const (
	MaxSize   = 5 << 20
	URLPrefix = "/avatars/"
)

var extensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskStore{dir: dir}, nil
}

func (s *DiskStore) Dir() string { return s.dir }

// Handler serves stored avatars under URLPrefix. Directories are never
// listed, so a file can only be fetched by its full name.
func (s *DiskStore) Handler() http.Handler {
	return http.StripPrefix(URLPrefix, http.FileServer(filesOnly{http.Dir(s.dir)}))
}

type filesOnly struct {
	fs http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.fs.Open(name)
	if err != nil {
		return nil, err
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.IsDir() {
		file.Close()
		return nil, os.ErrNotExist
	}
	return file, nil
}

// Save writes data under a fresh random name and returns the public URL.
func (s *DiskStore) Save(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", apperr.Invalid("avatar", "avatar is empty")
	}
	if len(data) > MaxSize {
		return "", apperr.Invalid("avatar", "avatar must be at most 5 MiB")
	}

	ext, ok := extensions[http.DetectContentType(data)]
	if !ok {
		return "", apperr.Invalid("avatar", "avatar must be a png, jpeg, gif or webp image")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := uuid.NewV4().String() + ext
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", err
	}

	return URLPrefix + name, nil
}

// Remove deletes the file behind url. URLs this store did not hand out are
// ignored.
func (s *DiskStore) Remove(_ context.Context, url string) error {
	name := strings.TrimPrefix(url, URLPrefix)
	if name == url || name == "" || name != filepath.Base(name) {
		return nil
	}

	err := os.Remove(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
