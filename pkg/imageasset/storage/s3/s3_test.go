package s3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequiresBucket(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestPublicURL(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		key    string
		want   string
	}{
		{
			name: "virtual hosted AWS URL",
			config: Config{
				Region: "eu-west-1",
				Bucket: "images",
			},
			key:  "users/u1/profile.jpg",
			want: "https://images.s3.eu-west-1.amazonaws.com/users/u1/profile.jpg",
		},
		{
			name: "custom endpoint",
			config: Config{
				Region:       "us-east-1",
				Bucket:       "images",
				Endpoint:     "http://localhost:9000",
				UsePathStyle: true,
			},
			key:  "products/u1/tomato.png",
			want: "http://localhost:9000/images/products/u1/tomato.png",
		},
		{
			name: "public base URL wins",
			config: Config{
				Region:        "us-east-1",
				Bucket:        "images",
				Endpoint:      "http://localhost:9000",
				PublicBaseURL: "https://cdn.example.com/",
			},
			key:  "users/u1/banner.png",
			want: "https://cdn.example.com/users/u1/banner.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend, err := New(tt.config)
			require.NoError(t, err)
			assert.Equal(t, tt.want, backend.PublicURL(tt.key))
		})
	}
}
