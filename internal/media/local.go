package media

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStore writes images below Root and serves them under BaseURL.
type LocalStore struct {
	Root    string
	BaseURL string
}

func NewLocalStore(root, baseURL string) *LocalStore {
	return &LocalStore{Root: root, BaseURL: strings.TrimRight(baseURL, "/")}
}

func (s *LocalStore) Save(ctx context.Context, dir string, img Image) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name := uuid.NewString() + img.Extension
	target := filepath.Join(s.Root, dir)
	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(target, name), img.Data, 0o644); err != nil {
		return "", fmt.Errorf("write media file: %w", err)
	}
	return s.BaseURL + "/" + path.Join(dir, name), nil
}

func (s *LocalStore) Delete(ctx context.Context, ref string) error {
	if ref == "" {
		return nil
	}
	rel := strings.TrimPrefix(ref, s.BaseURL+"/")
	if rel == ref || strings.Contains(rel, "..") {
		return fmt.Errorf("media ref %q is outside %s", ref, s.BaseURL)
	}
	err := os.Remove(filepath.Join(s.Root, filepath.FromSlash(rel)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove media file: %w", err)
	}
	return nil
}
