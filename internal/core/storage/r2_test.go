package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewR2RequiresSettings(t *testing.T) {
	_, err := NewR2(context.Background(), Opts{AccountID: "acc"})
	assert.Error(t, err)
}

func TestR2URLAndEndpoint(t *testing.T) {
	o := Opts{
		AccountID: "acc", AccessKeyID: "k", SecretAccessKey: "s",
		Bucket: "imgs", PublicURL: "https://cdn.example.com/",
	}
	assert.Equal(t, "https://acc.r2.cloudflarestorage.com", o.endpoint())

	r, err := NewR2(context.Background(), o)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/items/a.png", r.URL("items/a.png"))
	assert.Equal(t, "https://cdn.example.com/items/a.png", r.URL("/items/a.png"))

	o.Endpoint = "http://minio:9000"
	assert.Equal(t, "http://minio:9000", o.endpoint())
}
