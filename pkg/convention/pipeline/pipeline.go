package pipeline

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"

	"github.com/Nice-2-Meet-U/runway/internal/fault"
	"github.com/Nice-2-Meet-U/runway/pkg/convention/config"
	"github.com/Nice-2-Meet-U/runway/pkg/convention/deployment"
	"github.com/Nice-2-Meet-U/runway/pkg/convention/release"
)

type ReleaseConvention interface {
	Publish(ctx context.Context) (release.Build, error)
}

type DeploymentConvention interface {
	Find(ctx context.Context) (deployment.Deployment, error)
	Deploy(ctx context.Context, imageUri string) (deployment.Deployment, error)
	Describe(ctx context.Context) (deployment.Deployment, error)
}

// Receipt is everything one run produced: the pre-deploy state (nil on first
// deploy), the build (nil when deploying a prebuilt image), and the final
// serving state.
type Receipt struct {
	Prior      *deployment.Deployment
	Build      *release.Build
	Deployment deployment.Deployment
}

type Pipeline struct {
	Config     config.Config
	Release    ReleaseConvention
	Deployment DeploymentConvention
}

func FromConventions(c config.Config, r ReleaseConvention, d DeploymentConvention) Pipeline {
	return Pipeline{
		Config:     c,
		Release:    r,
		Deployment: d,
	}
}

// Run executes the linear pipeline: probe, build, deploy, describe. The probe
// reports the pre-deployment state only; its NotFound is the expected first
// deploy and never short-circuits the run. Everything after aborts on first
// failure. When imageUri is non-empty the build stage is skipped and that
// image deploys as-is.
func (p Pipeline) Run(ctx context.Context, imageUri string) (Receipt, error) {
	ctx, span := otel.Tracer("").Start(ctx, "pipeline.Run")
	defer span.End()

	span.SetAttributes(attribute.String("service", p.Config.ServiceName()))

	var receipt Receipt

	prior, err := p.Deployment.Find(ctx)
	switch {
	case err == nil:
		receipt.Prior = &prior
		log.Info().Str("url", prior.Url()).Str("revision", prior.Revision()).Msg("service currently deployed")
	case fault.IsNotFound(err):
		log.Info().Str("service", p.Config.Service.Name).Msg("no prior deployment, first deploy")
	default:
		span.SetStatus(otelcodes.Error, err.Error())
		return receipt, err
	}

	if imageUri == "" {
		build, err := p.Release.Publish(ctx)
		if err != nil {
			span.SetStatus(otelcodes.Error, err.Error())
			return receipt, err
		}

		receipt.Build = &build
		imageUri = build.Uri
		log.Info().Str("image", imageUri).Str("logs", build.LogLocation()).Msg("build succeeded")
	}

	if _, err := p.Deployment.Deploy(ctx, imageUri); err != nil {
		span.SetStatus(otelcodes.Error, err.Error())
		return receipt, err
	}

	final, err := p.Deployment.Describe(ctx)
	if err != nil {
		span.SetStatus(otelcodes.Error, err.Error())
		return receipt, err
	}

	receipt.Deployment = final
	return receipt, nil
}
