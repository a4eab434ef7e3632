package media

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	storage "github.com/supabase-community/storage-go"
)

// SupabaseStore uploads images to a public Supabase Storage bucket.
type SupabaseStore struct {
	client    *storage.Client
	bucket    string
	publicURL string
}

func NewSupabaseStore(supabaseURL, key, bucket string) *SupabaseStore {
	base := strings.TrimRight(supabaseURL, "/")
	return &SupabaseStore{
		client:    storage.NewClient(base+"/storage/v1", key, nil),
		bucket:    bucket,
		publicURL: fmt.Sprintf("%s/storage/v1/object/public/%s", base, bucket),
	}
}

func (s *SupabaseStore) Save(ctx context.Context, dir string, img Image) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	objectPath := path.Join(dir, uuid.NewString()+img.Extension)
	contentType := img.ContentType
	_, err := s.client.UploadFile(s.bucket, objectPath, bytes.NewReader(img.Data), storage.FileOptions{
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", objectPath, err)
	}
	return s.publicURL + "/" + objectPath, nil
}

func (s *SupabaseStore) Delete(ctx context.Context, ref string) error {
	if ref == "" {
		return nil
	}
	objectPath := strings.TrimPrefix(ref, s.publicURL+"/")
	if objectPath == ref {
		return fmt.Errorf("media ref %q is not in bucket %s", ref, s.bucket)
	}
	if _, err := s.client.RemoveFile(s.bucket, []string{objectPath}); err != nil {
		return fmt.Errorf("remove %s: %w", objectPath, err)
	}
	return nil
}
