package platform

import (
	"context"

	run "cloud.google.com/go/run/apiv2"
	"cloud.google.com/go/run/apiv2/runpb"
	"github.com/googleapis/gax-go/v2"
)

type ServicesClient interface {
	GetService(ctx context.Context, req *runpb.GetServiceRequest, opts ...gax.CallOption) (*runpb.Service, error)
	CreateService(ctx context.Context, req *runpb.CreateServiceRequest, opts ...gax.CallOption) (*run.CreateServiceOperation, error)
	UpdateService(ctx context.Context, req *runpb.UpdateServiceRequest, opts ...gax.CallOption) (*run.UpdateServiceOperation, error)
}

type Service struct {
	Client ServicesClient
}

func FromClients(client ServicesClient) Service {
	return Service{Client: client}
}

func (s Service) Get(ctx context.Context, name string) (*runpb.Service, error) {
	return s.Client.GetService(ctx, &runpb.GetServiceRequest{Name: name})
}

// Create submits a new service and blocks until the revision either serves or
// terminally fails. The wait is bounded by ctx; the platform keeps rolling the
// revision out regardless of whether anyone is still watching.
func (s Service) Create(ctx context.Context, parent, serviceId string, svc *runpb.Service) (*runpb.Service, error) {
	op, err := s.Client.CreateService(ctx, &runpb.CreateServiceRequest{
		Parent:    parent,
		ServiceId: serviceId,
		Service:   svc,
	})

	if err != nil {
		return nil, err
	}

	return op.Wait(ctx)
}

// Update replaces the service spec wholesale. Every deploy is a full redeploy;
// no diffing against the prior revision.
func (s Service) Update(ctx context.Context, svc *runpb.Service) (*runpb.Service, error) {
	op, err := s.Client.UpdateService(ctx, &runpb.UpdateServiceRequest{
		Service: svc,
	})

	if err != nil {
		return nil, err
	}

	return op.Wait(ctx)
}
