package mock

import (
	"context"
	"io"

	"cloud.google.com/go/cloudbuild/apiv1/v2/cloudbuildpb"
	"github.com/stretchr/testify/mock"
)

// MockBuildService is a mock of the release.BuildService interface
type MockBuildService struct {
	mock.Mock
}

func (m *MockBuildService) PackSource(dir string) (io.Reader, error) {
	args := m.Called(dir)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.Reader), args.Error(1)
}

func (m *MockBuildService) Upload(ctx context.Context, bucket, object string, content io.Reader) error {
	args := m.Called(ctx, bucket, object, content)
	return args.Error(0)
}

func (m *MockBuildService) Submit(ctx context.Context, projectId string, build *cloudbuildpb.Build) (*cloudbuildpb.Build, error) {
	args := m.Called(ctx, projectId, build)
	return args.Get(0).(*cloudbuildpb.Build), args.Error(1)
}
