package config

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewS3ConfigWithoutBucket(t *testing.T) {
	s3Cfg, err := NewS3Config(context.Background(), &Config{})

	require.NoError(t, err)
	assert.Nil(t, s3Cfg)
}

func TestS3ConfigHeadBucket(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead && r.URL.Path == "/fitcoach-images" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := s3.New(s3.Options{
		Region:       "us-east-1",
		BaseEndpoint: aws.String(srv.URL),
		UsePathStyle: true,
		Credentials:  aws.AnonymousCredentials{},
	})

	found := &S3Config{Client: client, BucketName: "fitcoach-images"}
	require.NoError(t, found.HeadBucket(context.Background()))

	missing := &S3Config{Client: client, BucketName: "missing"}
	err := missing.HeadBucket(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket missing is not reachable")
}
