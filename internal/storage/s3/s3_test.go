package s3

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
)

// fakeAPI records the last call instead of talking to S3.
type fakeAPI struct {
	putInput    *awss3.PutObjectInput
	putBody     string
	deleteInput *awss3.DeleteObjectInput
	err         error
}

func (f *fakeAPI) PutObject(_ context.Context, in *awss3.PutObjectInput, _ ...func(*awss3.Options)) (*awss3.PutObjectOutput, error) {
	f.putInput = in
	b, _ := io.ReadAll(in.Body)
	f.putBody = string(b)
	return &awss3.PutObjectOutput{}, f.err
}

func (f *fakeAPI) DeleteObject(_ context.Context, in *awss3.DeleteObjectInput, _ ...func(*awss3.Options)) (*awss3.DeleteObjectOutput, error) {
	f.deleteInput = in
	return &awss3.DeleteObjectOutput{}, f.err
}

func TestPut(t *testing.T) {
	api := &fakeAPI{}
	s := NewWithClient(api, Config{Bucket: "docs", Region: "eu-west-1"})

	url, err := s.Put(context.Background(), "a.pdf", strings.NewReader("pdf"), 3, "application/pdf")
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	if url != "https://docs.s3.eu-west-1.amazonaws.com/a.pdf" {
		t.Errorf("url = %q", url)
	}
	if aws.ToString(api.putInput.Bucket) != "docs" || aws.ToString(api.putInput.Key) != "a.pdf" {
		t.Errorf("input = %+v", api.putInput)
	}
	if aws.ToInt64(api.putInput.ContentLength) != 3 || api.putBody != "pdf" {
		t.Errorf("body not passed through")
	}
	if aws.ToString(api.putInput.ContentType) != "application/pdf" {
		t.Errorf("content type = %q", aws.ToString(api.putInput.ContentType))
	}
}

func TestPut_Error(t *testing.T) {
	api := &fakeAPI{err: errors.New("boom")}
	s := NewWithClient(api, Config{Bucket: "docs", Region: "eu-west-1"})

	if _, err := s.Put(context.Background(), "a.pdf", strings.NewReader("x"), 1, ""); err == nil {
		t.Fatal("Put() should surface client errors")
	}
}

func TestDelete(t *testing.T) {
	api := &fakeAPI{}
	s := NewWithClient(api, Config{Bucket: "docs", Region: "eu-west-1"})

	if err := s.Delete(context.Background(), "a.pdf"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if aws.ToString(api.deleteInput.Key) != "a.pdf" {
		t.Errorf("key = %q", aws.ToString(api.deleteInput.Key))
	}

	if err := s.Delete(context.Background(), "../a.pdf"); err == nil {
		t.Error("Delete() accepted a path key")
	}
}

func TestPublicURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"aws", Config{Bucket: "b", Region: "us-east-1"}, "https://b.s3.us-east-1.amazonaws.com"},
		{"custom endpoint", Config{Bucket: "b", Region: "us-east-1", Endpoint: "http://minio:9000/"}, "http://minio:9000/b"},
		{"explicit", Config{Bucket: "b", Region: "r", Endpoint: "http://minio:9000", PublicURL: "https://cdn.example.com/"}, "https://cdn.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := publicURL(tt.cfg); got != tt.want {
				t.Errorf("publicURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNew_RequiresBucketAndRegion(t *testing.T) {
	if _, err := New(context.Background(), Config{Region: "r"}); err == nil {
		t.Error("New() accepted an empty bucket")
	}
	if _, err := New(context.Background(), Config{Bucket: "b"}); err == nil {
		t.Error("New() accepted an empty region")
	}
}
