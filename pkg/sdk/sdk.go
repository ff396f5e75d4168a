package sdk

import (
	"context"

	// config
	"github.com/Nice-2-Meet-U/runway/pkg/convention/config"

	// services
	"github.com/Nice-2-Meet-U/runway/pkg/service/builder"
	"github.com/Nice-2-Meet-U/runway/pkg/service/platform"

	// conventions
	"github.com/Nice-2-Meet-U/runway/pkg/convention/deployment"
	"github.com/Nice-2-Meet-U/runway/pkg/convention/pipeline"
	"github.com/Nice-2-Meet-U/runway/pkg/convention/release"

	// clients
	cloudbuild "cloud.google.com/go/cloudbuild/apiv1/v2"
	run "cloud.google.com/go/run/apiv2"
	"cloud.google.com/go/storage"
)

type Clients struct {
	CloudBuildClient *cloudbuild.Client
	RunClient        *run.ServicesClient
	StorageClient    *storage.Client
}

type Services struct {
	Builder  builder.Service
	Platform platform.Service
}

type Conventions struct {
	Release    release.Convention
	Deployment deployment.Convention
	Pipeline   pipeline.Pipeline
}

type API struct {
	Conventions
	Config config.Config
}

func Init(ctx context.Context, config config.Config) (API, error) {
	clients, err := InitClients(ctx)
	if err != nil {
		return API{}, err
	}

	services := InitServices(clients)
	conventions := InitConventions(config, services)

	return API{
		Conventions: conventions,
		Config:      config,
	}, nil
}

func InitConventions(config config.Config, services Services) Conventions {
	releases := release.FromServices(config, services.Builder)
	deployments := deployment.FromServices(config, services.Platform)

	return Conventions{
		Release:    releases,
		Deployment: deployments,
		Pipeline:   pipeline.FromConventions(config, releases, deployments),
	}
}

func InitServices(clients Clients) Services {
	return Services{
		Builder:  builder.FromClients(clients.CloudBuildClient, clients.StorageClient),
		Platform: platform.FromClients(clients.RunClient),
	}
}

func InitClients(ctx context.Context) (Clients, error) {
	cloudBuildClient, err := cloudbuild.NewClient(ctx)
	if err != nil {
		return Clients{}, err
	}

	runClient, err := run.NewServicesClient(ctx)
	if err != nil {
		return Clients{}, err
	}

	storageClient, err := storage.NewClient(ctx)
	if err != nil {
		return Clients{}, err
	}

	return Clients{
		CloudBuildClient: cloudBuildClient,
		RunClient:        runClient,
		StorageClient:    storageClient,
	}, nil
}
