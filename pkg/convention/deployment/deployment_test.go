package deployment

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/run/apiv2/runpb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Nice-2-Meet-U/runway/internal/fault"
	"github.com/Nice-2-Meet-U/runway/pkg/convention/config"
	fixturemock "github.com/Nice-2-Meet-U/runway/pkg/mock/fixture"
	servicemock "github.com/Nice-2-Meet-U/runway/pkg/mock/service"
)

func testConfig() config.Config {
	return config.Config{
		Project: config.Project{Id: "p1", Region: "us-central1"},
		Service: config.Service{Name: "svc"},
		Image:   config.Image{Registry: "gcr.io", Tag: "v1"},
		Build:   config.Build{Source: ".", Bucket: "p1_cloudbuild", Timeout: 15 * time.Minute},
		Deploy:  config.Deploy{Timeout: 10 * time.Minute},
		Resources: config.Resources{
			Memory:         "512Mi",
			Cpu:            "1",
			MaxInstances:   3,
			RequestTimeout: 5 * time.Minute,
		},
		Env: map[string]string{
			"DB_USER":     "matches",
			"DB_NAME":     "matchesdb",
			"MATCH_TOPIC": "match-events",
		},
		Secrets: map[string]config.SecretRef{
			"DB_PASSWORD": {Name: "db-password", Version: "latest"},
		},
	}
}

const serviceName = "projects/p1/locations/us-central1/services/svc"

func TestFind(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()

	tests := []struct {
		name  string
		setup func(*servicemock.MockPlatformService)
		test  func(*testing.T, *servicemock.MockPlatformService)
	}{
		{
			name: "convention.Find returns the descriptor for a deployed service.",
			setup: func(mps *servicemock.MockPlatformService) {
				mps.On("Get", mock.Anything, serviceName).
					Return(fixturemock.ServingService(serviceName, "https://svc.example.run", "svc-00001"), nil)
			},
			test: func(t *testing.T, mps *servicemock.MockPlatformService) {
				deployments := FromServices(cfg, mps)
				got, err := deployments.Find(ctx)

				assert.NoError(t, err)
				assert.Equal(t, "https://svc.example.run", got.Url())
				assert.Equal(t, "svc-00001", got.Revision())
				assert.True(t, got.Ready())
			},
		},
		{
			name: "convention.Find maps platform absence to fault.NotFound.",
			setup: func(mps *servicemock.MockPlatformService) {
				mps.On("Get", mock.Anything, serviceName).
					Return((*runpb.Service)(nil), status.Error(codes.NotFound, "no such service"))
			},
			test: func(t *testing.T, mps *servicemock.MockPlatformService) {
				deployments := FromServices(cfg, mps)
				_, err := deployments.Find(ctx)

				assert.True(t, fault.IsNotFound(err))
			},
		},
		{
			name: "convention.Find keeps transport failure distinct from absence.",
			setup: func(mps *servicemock.MockPlatformService) {
				mps.On("Get", mock.Anything, serviceName).
					Return((*runpb.Service)(nil), status.Error(codes.Unavailable, "connection refused"))
			},
			test: func(t *testing.T, mps *servicemock.MockPlatformService) {
				deployments := FromServices(cfg, mps)
				_, err := deployments.Find(ctx)

				assert.False(t, fault.IsNotFound(err))

				var te fault.TransportError
				assert.ErrorAs(t, err, &te)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mps := &servicemock.MockPlatformService{}
			tt.setup(mps)
			tt.test(t, mps)
			mps.AssertExpectations(t)
		})
	}
}

func TestDeploy(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()

	tests := []struct {
		name  string
		setup func(*servicemock.MockPlatformService)
		test  func(*testing.T, *servicemock.MockPlatformService)
	}{
		{
			name: "convention.Deploy creates the service on first deploy.",
			setup: func(mps *servicemock.MockPlatformService) {
				mps.On("Get", mock.Anything, serviceName).
					Return((*runpb.Service)(nil), status.Error(codes.NotFound, "no such service"))
				mps.On("Create", mock.Anything, "projects/p1/locations/us-central1", "svc", mock.Anything).
					Return(fixturemock.ServingService(serviceName, "https://svc.example.run", "svc-00001"), nil)
			},
			test: func(t *testing.T, mps *servicemock.MockPlatformService) {
				deployments := FromServices(cfg, mps)
				got, err := deployments.Deploy(ctx, "gcr.io/p1/svc:v1")

				assert.NoError(t, err)
				assert.Equal(t, "https://svc.example.run", got.Url())
				mps.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)

				spec := mps.Calls[1].Arguments.Get(3).(*runpb.Service)
				container := spec.Template.Containers[0]
				assert.Equal(t, "gcr.io/p1/svc:v1", container.Image)
				assert.Equal(t, "512Mi", container.Resources.Limits["memory"])
				assert.Equal(t, "1", container.Resources.Limits["cpu"])
				assert.Equal(t, int32(3), spec.Template.Scaling.MaxInstanceCount)
				assert.Equal(t, 5*time.Minute, spec.Template.Timeout.AsDuration())
			},
		},
		{
			name: "convention.Deploy updates in place when the service exists.",
			setup: func(mps *servicemock.MockPlatformService) {
				mps.On("Get", mock.Anything, serviceName).
					Return(fixturemock.ServingService(serviceName, "https://svc.example.run", "svc-00001"), nil)
				mps.On("Update", mock.Anything, mock.Anything).
					Return(fixturemock.ServingService(serviceName, "https://svc.example.run", "svc-00002"), nil)
			},
			test: func(t *testing.T, mps *servicemock.MockPlatformService) {
				deployments := FromServices(cfg, mps)
				got, err := deployments.Deploy(ctx, "gcr.io/p1/svc:v2")

				assert.NoError(t, err)
				assert.Equal(t, "svc-00002", got.Revision())
				mps.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

				spec := mps.Calls[1].Arguments.Get(1).(*runpb.Service)
				assert.Equal(t, serviceName, spec.Name)
				assert.Equal(t, "gcr.io/p1/svc:v2", spec.Template.Containers[0].Image)
			},
		},
		{
			name: "convention.Deploy never embeds a literal credential in the environment.",
			setup: func(mps *servicemock.MockPlatformService) {
				mps.On("Get", mock.Anything, serviceName).
					Return((*runpb.Service)(nil), status.Error(codes.NotFound, "no such service"))
				mps.On("Create", mock.Anything, "projects/p1/locations/us-central1", "svc", mock.Anything).
					Return(fixturemock.ServingService(serviceName, "https://svc.example.run", "svc-00001"), nil)
			},
			test: func(t *testing.T, mps *servicemock.MockPlatformService) {
				deployments := FromServices(cfg, mps)
				_, err := deployments.Deploy(ctx, "gcr.io/p1/svc:v1")
				assert.NoError(t, err)

				spec := mps.Calls[1].Arguments.Get(3).(*runpb.Service)

				byName := map[string]*runpb.EnvVar{}
				for _, v := range spec.Template.Containers[0].Env {
					byName[v.Name] = v
				}

				assert.Equal(t, "matches", byName["DB_USER"].GetValue())
				assert.Equal(t, "match-events", byName["MATCH_TOPIC"].GetValue())

				password := byName["DB_PASSWORD"]
				assert.Empty(t, password.GetValue())
				assert.Equal(t, "db-password", password.GetValueSource().GetSecretKeyRef().GetSecret())
				assert.Equal(t, "latest", password.GetValueSource().GetSecretKeyRef().GetVersion())
			},
		},
		{
			name: "convention.Deploy surfaces the platform's rejection code verbatim.",
			setup: func(mps *servicemock.MockPlatformService) {
				mps.On("Get", mock.Anything, serviceName).
					Return(fixturemock.ServingService(serviceName, "https://svc.example.run", "svc-00001"), nil)
				mps.On("Update", mock.Anything, mock.Anything).
					Return((*runpb.Service)(nil), status.Error(codes.ResourceExhausted, "instance quota reached"))
			},
			test: func(t *testing.T, mps *servicemock.MockPlatformService) {
				deployments := FromServices(cfg, mps)
				_, err := deployments.Deploy(ctx, "gcr.io/p1/svc:v2")

				var df fault.DeployFailure
				assert.ErrorAs(t, err, &df)
				assert.Equal(t, "ResourceExhausted", df.Code)
				assert.Equal(t, "instance quota reached", df.Message)
			},
		},
		{
			name: "convention.Deploy reports a failed terminal condition as DeployFailure.",
			setup: func(mps *servicemock.MockPlatformService) {
				mps.On("Get", mock.Anything, serviceName).
					Return((*runpb.Service)(nil), status.Error(codes.NotFound, "no such service"))
				mps.On("Create", mock.Anything, "projects/p1/locations/us-central1", "svc", mock.Anything).
					Return(fixturemock.FailedService(serviceName, "REVISION_FAILED", "container failed to start"), nil)
			},
			test: func(t *testing.T, mps *servicemock.MockPlatformService) {
				deployments := FromServices(cfg, mps)
				_, err := deployments.Deploy(ctx, "gcr.io/p1/svc:v1")

				var df fault.DeployFailure
				assert.ErrorAs(t, err, &df)
				assert.Equal(t, "container failed to start", df.Message)
			},
		},
		{
			name: "convention.Deploy reports an expired wait as TimedOut.",
			setup: func(mps *servicemock.MockPlatformService) {
				mps.On("Get", mock.Anything, serviceName).
					Return(fixturemock.ServingService(serviceName, "https://svc.example.run", "svc-00001"), nil)
				mps.On("Update", mock.Anything, mock.Anything).
					Return((*runpb.Service)(nil), context.DeadlineExceeded)
			},
			test: func(t *testing.T, mps *servicemock.MockPlatformService) {
				deployments := FromServices(cfg, mps)
				_, err := deployments.Deploy(ctx, "gcr.io/p1/svc:v2")

				var to fault.TimedOut
				assert.ErrorAs(t, err, &to)
				assert.Equal(t, fault.StageDeploy, to.Stage)
				assert.Equal(t, 10*time.Minute, to.After)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mps := &servicemock.MockPlatformService{}
			tt.setup(mps)
			tt.test(t, mps)
			mps.AssertExpectations(t)
		})
	}
}
