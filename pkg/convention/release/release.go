package release

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/cloudbuild/apiv1/v2/cloudbuildpb"
	"github.com/golang-module/carbon/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"google.golang.org/protobuf/types/known/durationpb"

	"github.com/Nice-2-Meet-U/runway/internal/fault"
	"github.com/Nice-2-Meet-U/runway/pkg/convention/config"
)

type BuildService interface {
	PackSource(dir string) (io.Reader, error)
	Upload(ctx context.Context, bucket, object string, content io.Reader) error
	Submit(ctx context.Context, projectId string, build *cloudbuildpb.Build) (*cloudbuildpb.Build, error)
}

// Build is the build service's report of one finished build: image reference
// plus where the logs went.
type Build struct {
	*cloudbuildpb.Build
	Uri string
}

func (b Build) LogLocation() string {
	return b.GetLogUrl()
}

type Services struct {
	Builder BuildService
}

type Convention struct {
	Config  config.Config
	Service Services
}

func FromServices(c config.Config, b BuildService) Convention {
	return Convention{
		Config: c,
		Service: Services{
			Builder: b,
		},
	}
}

// Publish packs the source context, stages it in the build bucket, and submits
// a build for the configured image tag, waiting bounded by the build timeout.
// A terminal non-success from the build service is a BuildFailure carrying its
// diagnostic payload; nothing retries.
func (c Convention) Publish(ctx context.Context) (Build, error) {
	ctx, span := otel.Tracer("").Start(ctx, "release.Publish")
	defer span.End()

	imageUri := c.Config.ImageUri()
	object := c.objectName()

	span.SetAttributes(
		attribute.String("image-uri", imageUri),
		attribute.String("source-bucket", c.Config.Build.Bucket),
		attribute.String("source-object", object),
	)

	packed, err := c.Service.Builder.PackSource(c.Config.Build.Source)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Build{}, fmt.Errorf("packing source %s: %w", c.Config.Build.Source, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.Config.Build.Timeout)
	defer cancel()

	if err := c.Service.Builder.Upload(ctx, c.Config.Build.Bucket, object, packed); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Build{}, fault.FromRPC(fault.StageBuild, c.Config.Build.Bucket+"/"+object, c.Config.Build.Timeout, err)
	}

	done, err := c.Service.Builder.Submit(ctx, c.Config.Project.Id, c.buildSpec(imageUri, object))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Build{}, fault.FromRPC(fault.StageBuild, imageUri, c.Config.Build.Timeout, err)
	}

	if done.GetStatus() != cloudbuildpb.Build_SUCCESS {
		failure := fault.BuildFailure{
			BuildId: done.GetId(),
			Status:  done.GetStatus().String(),
			Detail:  done.GetStatusDetail(),
			LogUrl:  done.GetLogUrl(),
		}
		span.SetStatus(codes.Error, failure.Error())
		return Build{}, failure
	}

	return Build{done, imageUri}, nil
}

func (c Convention) buildSpec(imageUri, object string) *cloudbuildpb.Build {
	return &cloudbuildpb.Build{
		Source: &cloudbuildpb.Source{
			Source: &cloudbuildpb.Source_StorageSource{
				StorageSource: &cloudbuildpb.StorageSource{
					Bucket: c.Config.Build.Bucket,
					Object: object,
				},
			},
		},
		Steps: []*cloudbuildpb.BuildStep{
			{
				Name: "gcr.io/cloud-builders/docker",
				Args: []string{"build", "-t", imageUri, "."},
			},
		},
		Images:  []string{imageUri},
		Timeout: durationpb.New(c.Config.Build.Timeout),
	}
}

func (c Convention) objectName() string {
	return "source/" + c.Config.Service.Name + "-" + carbon.Now().ToShortDateTimeString() + "-" + c.Config.Image.Tag + ".tgz"
}
