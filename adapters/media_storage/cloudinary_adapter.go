package media_storage

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/admin"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"

	"github.com/khoahotran/career-compass/internal/application/service"
	"github.com/khoahotran/career-compass/internal/config"
	"github.com/khoahotran/career-compass/pkg/logger"
)

// Backups are JSON documents, so everything goes up as a raw asset.
const rawResource = "raw"

type cloudinaryAdapter struct {
	cld *cloudinary.Cloudinary
	log logger.Logger
}

func NewCloudinaryAdapter(cfg config.Config, log logger.Logger) (service.Uploader, error) {
	if !cfg.CloudinaryEnabled() {
		return nil, fmt.Errorf("cloudinary cloud_name has not config")
	}

	cld, err := cloudinary.NewFromParams(
		cfg.Cloudinary.CloudName,
		cfg.Cloudinary.ApiKey,
		cfg.Cloudinary.ApiSecret,
	)
	if err != nil {
		return nil, fmt.Errorf("cannot init cloudinary: %w", err)
	}

	log.Info("Connected to Cloudinary", zap.String("cloud_name", cfg.Cloudinary.CloudName))
	return &cloudinaryAdapter{cld: cld, log: log}, nil
}

func (a *cloudinaryAdapter) Upload(ctx context.Context, file io.Reader, folder string, publicID string) (string, error) {
	uploadParams := uploader.UploadParams{
		PublicID:     publicID,
		Folder:       folder,
		ResourceType: rawResource,
		Overwrite:    api.Bool(true),
	}
	result, err := a.cld.Upload.Upload(ctx, file, uploadParams)
	if err != nil {
		return "", fmt.Errorf("failed to upload cloudinary: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("cloudinary rejected upload: %s", result.Error.Message)
	}
	return result.SecureURL, nil
}

func (a *cloudinaryAdapter) List(ctx context.Context, prefix string) ([]string, error) {
	var (
		ids    []string
		cursor string
	)
	for {
		result, err := a.cld.Admin.Assets(ctx, admin.AssetsParams{
			AssetType:    api.AssetType(rawResource),
			DeliveryType: "upload",
			Prefix:       prefix,
			MaxResults:   500,
			NextCursor:   cursor,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list cloudinary assets: %w", err)
		}
		if result.Error.Message != "" {
			return nil, fmt.Errorf("cloudinary rejected listing: %s", result.Error.Message)
		}
		for _, asset := range result.Assets {
			ids = append(ids, asset.PublicID)
		}
		if result.NextCursor == "" {
			return ids, nil
		}
		cursor = result.NextCursor
	}
}

func (a *cloudinaryAdapter) Delete(ctx context.Context, publicID string) error {
	_, err := a.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: rawResource,
	})
	if err != nil {
		return fmt.Errorf("failed to delete cloudinary: %w", err)
	}
	return nil
}
