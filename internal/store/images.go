package store

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/filesystem"
)

// ImageStore keeps activity images in the PocketBase filesystem (local or S3).
type ImageStore struct {
	app core.App
}

func NewImageStore(app core.App) *ImageStore {
	return &ImageStore{app: app}
}

func (s *ImageStore) Put(ctx context.Context, key string, content []byte) error {
	fsys, err := s.app.NewFilesystem()
	if err != nil {
		return fmt.Errorf("s.app.NewFilesystem(): %w", err)
	}
	defer fsys.Close()
	fsys.SetContext(ctx)

	file, err := filesystem.NewFileFromBytes(content, key)
	if err != nil {
		return fmt.Errorf("filesystem.NewFileFromBytes(): %w", err)
	}
	if err := fsys.UploadFile(file, key); err != nil {
		return fmt.Errorf("fsys.UploadFile(): %w", err)
	}
	return nil
}

// Serve streams the image stored under key.
func (s *ImageStore) Serve(w http.ResponseWriter, r *http.Request, key string) error {
	fsys, err := s.app.NewFilesystem()
	if err != nil {
		return fmt.Errorf("s.app.NewFilesystem(): %w", err)
	}
	defer fsys.Close()

	return fsys.Serve(w, r, key, "")
}

func (s *ImageStore) Exists(key string) (bool, error) {
	fsys, err := s.app.NewFilesystem()
	if err != nil {
		return false, fmt.Errorf("s.app.NewFilesystem(): %w", err)
	}
	defer fsys.Close()

	return fsys.Exists(key)
}
