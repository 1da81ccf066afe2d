package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"strings"

	"github.com/h2non/filetype"
	gonanoid "github.com/matoous/go-nanoid/v2"

	config "github.com/flowpilotuk-hash/flowpilot/configs"
	"github.com/flowpilotuk-hash/flowpilot/internal/models"
	"github.com/flowpilotuk-hash/flowpilot/internal/repository"
	"github.com/flowpilotuk-hash/flowpilot/pkg/apperror"
)

type MediaService interface {
	Upload(ctx context.Context, userID int64, file *multipart.FileHeader, label string) (*models.MediaAsset, error)
	List(ctx context.Context, userID int64) ([]*models.MediaAsset, error)
}

type mediaService struct {
	cfg config.Config
	ma  repository.MediaAssetRepository
	r2  R2Service
}

func NewMediaService(cfg config.Config, ma repository.MediaAssetRepository, r2 R2Service) MediaService {
	return &mediaService{
		cfg: cfg,
		ma:  ma,
		r2:  r2,
	}
}

func (s *mediaService) Upload(ctx context.Context, userID int64, file *multipart.FileHeader, label string) (*models.MediaAsset, error) {
	if file == nil {
		return nil, apperror.ValidationError("file is required")
	}

	src, err := file.Open()
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer src.Close()

	fileBytes, err := io.ReadAll(src)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	kind, err := filetype.Match(fileBytes)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	if !strings.HasPrefix(kind.MIME.Value, "image/") && !strings.HasPrefix(kind.MIME.Value, "video/") {
		err := errors.New("only image and video uploads are supported")
		slog.Info(err.Error())
		return nil, apperror.ValidationError(err.Error())
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("media/%d/%s.%s", userID, id, kind.Extension)

	if err := s.r2.UploadToR2(ctx, key, fileBytes, kind.MIME.Value); err != nil {
		return nil, err
	}

	asset := &models.MediaAsset{
		UserID:      userID,
		AssetKey:    key,
		URL:         strings.TrimSuffix(s.cfg.R2.PublicBaseURL, "/") + "/" + key,
		ContentType: kind.MIME.Value,
		Label:       label,
	}

	assetID, err := s.ma.Create(ctx, asset)
	if err != nil {
		return nil, err
	}
	asset.ID = assetID

	return asset, nil
}

func (s *mediaService) List(ctx context.Context, userID int64) ([]*models.MediaAsset, error) {
	return s.ma.GetByUserID(ctx, userID)
}
