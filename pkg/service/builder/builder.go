package builder

import (
	"context"
	"io"

	cloudbuild "cloud.google.com/go/cloudbuild/apiv1/v2"
	"cloud.google.com/go/cloudbuild/apiv1/v2/cloudbuildpb"
	"cloud.google.com/go/storage"
	"github.com/googleapis/gax-go/v2"
)

type BuildClient interface {
	CreateBuild(ctx context.Context, req *cloudbuildpb.CreateBuildRequest, opts ...gax.CallOption) (*cloudbuild.CreateBuildOperation, error)
}

type Service struct {
	Build   BuildClient
	Storage *storage.Client
}

func FromClients(buildClient BuildClient, storageClient *storage.Client) Service {
	return Service{
		Build:   buildClient,
		Storage: storageClient,
	}
}

// PackSource archives the build context for staging.
func (s Service) PackSource(dir string) (io.Reader, error) {
	return Pack(dir)
}

// Upload stages a source archive into the build bucket.
func (s Service) Upload(ctx context.Context, bucket, object string, content io.Reader) error {
	w := s.Storage.Bucket(bucket).Object(object).NewWriter(ctx)

	if _, err := io.Copy(w, content); err != nil {
		_ = w.Close()
		return err
	}

	return w.Close()
}

// Submit starts a build and blocks until its long-running operation resolves.
// The caller bounds the wait through ctx; an expired deadline abandons the
// wait, not the build.
func (s Service) Submit(ctx context.Context, projectId string, build *cloudbuildpb.Build) (*cloudbuildpb.Build, error) {
	op, err := s.Build.CreateBuild(ctx, &cloudbuildpb.CreateBuildRequest{
		ProjectId: projectId,
		Build:     build,
	})

	if err != nil {
		return nil, err
	}

	return op.Wait(ctx)
}
