package deployment

import (
	"context"
	"errors"
	"sort"
	"strings"

	"cloud.google.com/go/run/apiv2/runpb"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/durationpb"

	"github.com/Nice-2-Meet-U/runway/internal/fault"
	"github.com/Nice-2-Meet-U/runway/pkg/convention/config"
)

type PlatformService interface {
	Get(ctx context.Context, name string) (*runpb.Service, error)
	Create(ctx context.Context, parent, serviceId string, svc *runpb.Service) (*runpb.Service, error)
	Update(ctx context.Context, svc *runpb.Service) (*runpb.Service, error)
}

// Deployment is the platform's report of a deployed service. Owned by the
// platform; runway only reads it.
type Deployment struct {
	*runpb.Service
}

func (d Deployment) Url() string {
	return d.GetUri()
}

// Revision reports the short name of the latest ready revision.
func (d Deployment) Revision() string {
	full := d.GetLatestReadyRevision()
	if i := strings.LastIndex(full, "/"); i >= 0 {
		return full[i+1:]
	}
	return full
}

func (d Deployment) Ready() bool {
	if d.GetReconciling() {
		return false
	}

	cond := d.GetTerminalCondition()
	if cond == nil {
		return false
	}

	return cond.GetState() == runpb.Condition_CONDITION_SUCCEEDED
}

type Services struct {
	Platform PlatformService
}

type Convention struct {
	Config  config.Config
	Service Services
}

func FromServices(c config.Config, p PlatformService) Convention {
	return Convention{
		Config: c,
		Service: Services{
			Platform: p,
		},
	}
}

// Find resolves the current state of the named service. Absence comes back as
// fault.NotFound; the pre-deploy probe treats that as the expected
// first-deployment case, anything else treats it as a real failure.
func (c Convention) Find(ctx context.Context) (Deployment, error) {
	ctx, span := otel.Tracer("").Start(ctx, "deployment.Find")
	defer span.End()

	name := c.Config.ServiceName()
	span.SetAttributes(attribute.String("service", name))

	svc, err := c.Service.Platform.Get(ctx, name)
	if err != nil {
		err = fault.FromRPC(fault.StageDescribe, name, c.Config.Deploy.Timeout, err)
		span.SetStatus(otelcodes.Error, err.Error())
		return Deployment{}, err
	}

	return Deployment{svc}, nil
}

// Describe fetches the final state for reporting.
func (c Convention) Describe(ctx context.Context) (Deployment, error) {
	return c.Find(ctx)
}

// Deploy submits the full service spec for the given image and blocks until
// the platform reports serving or terminal failure, bounded by the deploy
// timeout. Create or update is decided by a fresh existence check; either way
// the submitted spec is complete, never a patch.
func (c Convention) Deploy(ctx context.Context, imageUri string) (Deployment, error) {
	ctx, span := otel.Tracer("").Start(ctx, "deployment.Deploy")
	defer span.End()

	name := c.Config.ServiceName()
	span.SetAttributes(
		attribute.String("service", name),
		attribute.String("image-uri", imageUri),
	)

	ctx, cancel := context.WithTimeout(ctx, c.Config.Deploy.Timeout)
	defer cancel()

	_, err := c.Service.Platform.Get(ctx, name)
	exists := err == nil

	if err != nil {
		if probeErr := fault.FromRPC(fault.StageDeploy, name, c.Config.Deploy.Timeout, err); !fault.IsNotFound(probeErr) {
			span.SetStatus(otelcodes.Error, probeErr.Error())
			return Deployment{}, probeErr
		}
	}

	spec := c.serviceSpec(imageUri)

	var deployed *runpb.Service
	if exists {
		spec.Name = name
		deployed, err = c.Service.Platform.Update(ctx, spec)
	} else {
		deployed, err = c.Service.Platform.Create(ctx, c.Config.LocationName(), c.Config.Service.Name, spec)
	}

	if err != nil {
		err = c.deployFault(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return Deployment{}, err
	}

	if cond := deployed.GetTerminalCondition(); cond.GetState() == runpb.Condition_CONDITION_FAILED {
		failure := fault.DeployFailure{
			Service: c.Config.Service.Name,
			Code:    cond.GetReason().String(),
			Message: cond.GetMessage(),
		}
		span.SetStatus(otelcodes.Error, failure.Error())
		return Deployment{}, failure
	}

	return Deployment{deployed}, nil
}

// deployFault separates "could not reach the platform" from "the platform
// processed the deployment and failed it". Timeouts and transport failures
// keep their kinds; everything else is the platform's own verdict, surfaced
// with its code and message untouched.
func (c Convention) deployFault(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fault.TimedOut{Stage: fault.StageDeploy, After: c.Config.Deploy.Timeout}
	}

	if s, ok := status.FromError(err); ok {
		switch s.Code() {
		case codes.DeadlineExceeded:
			return fault.TimedOut{Stage: fault.StageDeploy, After: c.Config.Deploy.Timeout}
		case codes.Unavailable:
			return fault.TransportError{Stage: fault.StageDeploy, Err: err}
		default:
			return fault.DeployFailure{
				Service: c.Config.Service.Name,
				Code:    s.Code().String(),
				Message: s.Message(),
			}
		}
	}

	return fault.TransportError{Stage: fault.StageDeploy, Err: err}
}

func (c Convention) serviceSpec(imageUri string) *runpb.Service {
	return &runpb.Service{
		Labels:  map[string]string{"managed-by": "runway"},
		Ingress: runpb.IngressTraffic_INGRESS_TRAFFIC_ALL,
		Template: &runpb.RevisionTemplate{
			ServiceAccount: c.Config.Service.ServiceAccount,
			Timeout:        durationpb.New(c.Config.Resources.RequestTimeout),
			Scaling: &runpb.RevisionScaling{
				MaxInstanceCount: c.Config.Resources.MaxInstances,
			},
			Containers: []*runpb.Container{
				{
					Image: imageUri,
					Resources: &runpb.ResourceRequirements{
						Limits: map[string]string{
							"memory": c.Config.Resources.Memory,
							"cpu":    c.Config.Resources.Cpu,
						},
					},
					Env: c.envVars(),
				},
			},
		},
	}
}

// envVars renders the plain mapping and the secret references, sorted for a
// deterministic spec. Secret values never appear here; the platform resolves
// the selectors at revision start.
func (c Convention) envVars() []*runpb.EnvVar {
	var vars []*runpb.EnvVar

	plain := make([]string, 0, len(c.Config.Env))
	for key := range c.Config.Env {
		plain = append(plain, key)
	}
	sort.Strings(plain)

	for _, key := range plain {
		vars = append(vars, &runpb.EnvVar{
			Name:   key,
			Values: &runpb.EnvVar_Value{Value: c.Config.Env[key]},
		})
	}

	secret := make([]string, 0, len(c.Config.Secrets))
	for key := range c.Config.Secrets {
		secret = append(secret, key)
	}
	sort.Strings(secret)

	for _, key := range secret {
		ref := c.Config.Secrets[key]
		vars = append(vars, &runpb.EnvVar{
			Name: key,
			Values: &runpb.EnvVar_ValueSource{
				ValueSource: &runpb.EnvVarSource{
					SecretKeyRef: &runpb.SecretKeySelector{
						Secret:  ref.Name,
						Version: ref.Version,
					},
				},
			},
		})
	}

	return vars
}
