package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/akimenko/airtech/config"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// PhotoStore is the blob-storage boundary: store bytes, get a URL back,
// delete by the same name later.
type PhotoStore interface {
	Store(ctx context.Context, r io.Reader, name string) (string, error)
	Delete(ctx context.Context, name string) error
}

type CloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryStore(cfg config.StorageConfig) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	return &CloudinaryStore{cld: cld, folder: cfg.PhotoFolder}, nil
}

func (s *CloudinaryStore) Store(ctx context.Context, r io.Reader, name string) (string, error) {
	resp, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:       s.folder,
		PublicID:     name,
		ResourceType: "image",
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", name, err)
	}
	return resp.SecureURL, nil
}

func (s *CloudinaryStore) Delete(ctx context.Context, name string) error {
	invalidate := true
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     s.folder + "/" + name,
		ResourceType: "image",
		Invalidate:   &invalidate,
	})
	return err
}

var _ PhotoStore = (*CloudinaryStore)(nil)
