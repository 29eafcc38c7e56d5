package service

import (
	"context"
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"storefront/internal/domain"
)

const MaxUploadSize = 5 << 20

var (
	ErrUploadType = domain.NewValidationError("Invalid file type. Allowed: JPEG, PNG, GIF, WebP.", "file")
	ErrUploadSize = domain.NewValidationError("File too large. Maximum size is 5 MB.", "file")
	ErrUploadFile = domain.NewValidationError(`No file provided. Use form field "file" or "image".`, "file")
)

// 允许的图片类型 -> 扩展名
var imageExt = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ObjectStore 对象存储；Put 返回公开访问地址
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

type UploadService struct {
	store ObjectStore
	log   *zap.Logger
}

// NewUploadService store 为 nil 表示未配置存储
func NewUploadService(store ObjectStore, l *zap.Logger) *UploadService {
	return &UploadService{store: store, log: l}
}

func (s *UploadService) Configured() bool { return s.store != nil }

// Upload 声明类型与嗅探类型都必须在白名单内；超过 5MB 拒绝
func (s *UploadService) Upload(ctx context.Context, declared string, size int64, r io.Reader) (string, error) {
	if !s.Configured() {
		return "", domain.ErrStorageUnconfigured
	}
	if _, ok := imageExt[declared]; !ok {
		return "", ErrUploadType
	}
	if size > MaxUploadSize {
		return "", ErrUploadSize
	}
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return "", ErrUploadFile
	}
	if len(data) > MaxUploadSize {
		return "", ErrUploadSize
	}

	detected := mimetype.Detect(data).String()
	ext, ok := imageExt[detected]
	if !ok {
		return "", ErrUploadType
	}
	key := "items/" + uuid.NewString() + ext
	url, err := s.store.Put(ctx, key, data, detected)
	if err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}
	s.log.Info("image uploaded", zap.String("key", key), zap.Int("bytes", len(data)))
	return url, nil
}
