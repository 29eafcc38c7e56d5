package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront/internal/domain"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

type fakeStore struct {
	keys  []string
	types []string
	err   error
}

func (f *fakeStore) Put(_ context.Context, key string, _ []byte, contentType string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.keys = append(f.keys, key)
	f.types = append(f.types, contentType)
	return "https://cdn.example.com/" + key, nil
}

func TestUploadStoresImage(t *testing.T) {
	store := &fakeStore{}
	s := NewUploadService(store, zap.NewNop())

	url, err := s.Upload(context.Background(), "image/png", int64(len(pngHeader)), bytes.NewReader(pngHeader))
	require.NoError(t, err)
	require.Len(t, store.keys, 1)
	assert.True(t, strings.HasPrefix(store.keys[0], "items/"))
	assert.True(t, strings.HasSuffix(store.keys[0], ".png"))
	assert.Equal(t, "image/png", store.types[0])
	assert.Equal(t, "https://cdn.example.com/"+store.keys[0], url)
}

func TestUploadRejections(t *testing.T) {
	s := NewUploadService(&fakeStore{}, zap.NewNop())
	ctx := context.Background()

	_, err := s.Upload(ctx, "application/pdf", 10, bytes.NewReader([]byte("%PDF-1.4")))
	assert.ErrorIs(t, err, ErrUploadType)

	// 声明为图片但内容不是
	_, err = s.Upload(ctx, "image/png", 5, strings.NewReader("hello"))
	assert.ErrorIs(t, err, ErrUploadType)

	_, err = s.Upload(ctx, "image/png", MaxUploadSize+1, bytes.NewReader(pngHeader))
	assert.ErrorIs(t, err, ErrUploadSize)

	big := append(append([]byte{}, pngHeader...), make([]byte, MaxUploadSize)...)
	_, err = s.Upload(ctx, "image/png", -1, bytes.NewReader(big))
	assert.ErrorIs(t, err, ErrUploadSize)

	_, err = s.Upload(ctx, "image/png", 0, bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrUploadFile)
}

func TestUploadUnconfiguredAndUpstream(t *testing.T) {
	_, err := NewUploadService(nil, zap.NewNop()).Upload(context.Background(), "image/png", 1, bytes.NewReader(pngHeader))
	assert.ErrorIs(t, err, domain.ErrStorageUnconfigured)

	boom := errors.New("r2 down")
	_, err = NewUploadService(&fakeStore{err: boom}, zap.NewNop()).Upload(context.Background(), "image/png", 1, bytes.NewReader(pngHeader))
	assert.ErrorIs(t, err, boom)
	assert.False(t, domain.IsValidation(err))
}
