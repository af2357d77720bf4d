package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithoutConfig(t *testing.T) {
	c, err := New(Options{Bucket: "media"})
	require.NoError(t, err)
	assert.Nil(t, c)

	c, err = New(Options{Endpoint: "https://s3.example.com", AccessKey: "k", Bucket: "media"})
	require.NoError(t, err)
	assert.Nil(t, c, "secret key missing")
}

func TestNewRequiresBucket(t *testing.T) {
	_, err := New(Options{Endpoint: "https://s3.example.com", AccessKey: "k", SecretKey: "s"})
	assert.Error(t, err)
}

func TestFileURL(t *testing.T) {
	pathStyle, err := New(Options{
		Endpoint:  "https://s3.example.com/",
		Region:    "eu-central-1",
		AccessKey: "k",
		SecretKey: "s",
		Bucket:    "media",
	})
	require.NoError(t, err)
	require.NotNil(t, pathStyle)

	cdn, err := New(Options{
		Endpoint:  "https://s3.example.com",
		AccessKey: "k",
		SecretKey: "s",
		Bucket:    "media",
		PublicURL: "https://cdn.example.com/",
	})
	require.NoError(t, err)

	tests := []struct {
		name   string
		client *Client
		key    string
		want   string
	}{
		{"path style", pathStyle, "articles/gold.jpg", "https://s3.example.com/media/articles/gold.jpg"},
		{"leading slash", pathStyle, "/articles/gold.jpg", "https://s3.example.com/media/articles/gold.jpg"},
		{"public url", cdn, "investments/valencia-1.jpg", "https://cdn.example.com/investments/valencia-1.jpg"},
		{"absolute url", cdn, "https://images.example.org/a.jpg", "https://images.example.org/a.jpg"},
		{"empty", cdn, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.client.FileURL(tt.key))
		})
	}
	assert.Equal(t, "media", cdn.Bucket())
}
