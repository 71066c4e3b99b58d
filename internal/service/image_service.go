package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/almaghboub/FixerUpper/internal/config"
	"github.com/almaghboub/FixerUpper/internal/domain"
	"github.com/almaghboub/FixerUpper/internal/repository"
	"github.com/almaghboub/FixerUpper/pkg/utils"
)

var (
	ErrMalformedImage = errors.New("malformed image data")
	ErrInvalidImage   = errors.New("invalid file type")
	ErrImageTooLarge  = errors.New("image too large")
	ErrNotFound       = repository.ErrNotFound
)

type ImageService interface {
	UploadImage(ctx context.Context, req domain.UploadRequest) (*domain.UploadResult, error)
	ListImages(ctx context.Context, page, limit int) (*domain.PageResult, error)
	DeleteImage(ctx context.Context, id string) error
}

type imageService struct {
	storage repository.ObjectStorage
	images  repository.ImageRepository
	cfg     *config.AppConfig
	log     *zap.Logger
	now     func() time.Time
}

func NewImageService(storage repository.ObjectStorage, images repository.ImageRepository, cfg *config.AppConfig, log *zap.Logger) ImageService {
	return &imageService{
		storage: storage,
		images:  images,
		cfg:     cfg,
		log:     log,
		now:     time.Now,
	}
}

func (s *imageService) UploadImage(ctx context.Context, req domain.UploadRequest) (*domain.UploadResult, error) {
	if !utils.IsImageContentType(req.ContentType) {
		return nil, fmt.Errorf("%w: declared %q", ErrInvalidImage, req.ContentType)
	}

	_, data, err := utils.DecodeDataURI(req.ImageData)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedImage, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrMalformedImage)
	}
	if int64(len(data)) > s.cfg.MaxUploadSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrImageTooLarge, len(data))
	}

	// The bytes decide, not the declaration.
	contentType := utils.DetectContentType(data)
	if !utils.IsImageContentType(contentType) {
		return nil, fmt.Errorf("%w: detected %q", ErrInvalidImage, contentType)
	}

	imageID := uuid.New().String()
	key := s.objectKey(imageID, contentType)

	if err := s.storage.UploadFile(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return nil, fmt.Errorf("store image: %w", err)
	}

	url := s.storage.PublicURL(key)
	_, err = s.images.CreateImage(ctx, repository.NewImage{
		ID:          imageID,
		URL:         url,
		ObjectKey:   key,
		ContentType: contentType,
		SizeBytes:   int64(len(data)),
	})
	if err != nil {
		if delErr := s.storage.DeleteFile(ctx, key); delErr != nil {
			s.log.Warn("Failed to remove orphaned object",
				zap.String("key", key),
				zap.Error(delErr))
		}
		return nil, fmt.Errorf("record image: %w", err)
	}

	s.log.Info("Image uploaded successfully",
		zap.String("id", imageID),
		zap.String("content_type", contentType),
		zap.Int("size", len(data)))

	return &domain.UploadResult{ImageURL: url}, nil
}

// objectKey partitions objects by upload date, the way the storage bucket is
// browsed by operators.
func (s *imageService) objectKey(imageID, contentType string) string {
	now := s.now().UTC()
	return fmt.Sprintf("%s/y=%d/m=%02d/d=%02d/%s%s",
		s.cfg.KeyPrefix, now.Year(), now.Month(), now.Day(),
		imageID, utils.ExtensionFor(contentType))
}

func (s *imageService) ListImages(ctx context.Context, page, limit int) (*domain.PageResult, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > s.cfg.MaxLimit {
		limit = s.cfg.DefaultLimit
	}

	images, total, err := s.images.ListImages(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	return &domain.PageResult{
		Images:     images,
		Pagination: domain.NewPagination(page, limit, total),
	}, nil
}

func (s *imageService) DeleteImage(ctx context.Context, id string) error {
	key, err := s.images.DeleteImage(ctx, id)
	if err != nil {
		return err
	}

	// The record is gone; a leftover object is only wasted space.
	if err := s.storage.DeleteFile(ctx, key); err != nil {
		s.log.Warn("Image record deleted but object removal failed",
			zap.String("id", id),
			zap.String("key", key),
			zap.Error(err))
	}

	s.log.Info("Image deleted", zap.String("id", id))
	return nil
}
