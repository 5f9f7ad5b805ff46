package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// File is an upload payload handed down from the request boundary.
type File struct {
	Name string
	Data []byte
}

// Uploader stores an artifact and returns its public URL. The local
// implementation below writes under the media dir; a CDN client satisfies
// the same interface.
type Uploader interface {
	Upload(ctx context.Context, folder, name string, data []byte) (string, error)
}

// LocalUploader writes artifacts under Dir, which main serves at /media/*.
type LocalUploader struct {
	Dir     string
	BaseURL string
}

func (u *LocalUploader) Upload(ctx context.Context, folder, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	// folder/name come from trusted code paths, but keep traversal out anyway
	folder = filepath.Clean(strings.TrimLeft(folder, "/"))
	name = filepath.Base(name)

	dir := filepath.Join(u.Dir, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", err
	}
	return u.BaseURL + "/media/" + folder + "/" + name, nil
}
