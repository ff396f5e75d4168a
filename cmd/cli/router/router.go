package router

import (
	"context"
	"os"

	"github.com/alexflint/go-arg"

	"github.com/Nice-2-Meet-U/runway/cmd/cli/method"
	"github.com/Nice-2-Meet-U/runway/cmd/cli/param"
	"github.com/Nice-2-Meet-U/runway/pkg/sdk"
)

type GlobalOpts struct {
	Project        string `arg:"-p,--project,env:RUNWAY_PROJECT" help:"project id"`
	Region         string `arg:"-r,--region,env:RUNWAY_REGION" help:"deployment region"`
	Service        string `arg:"-s,--service,env:RUNWAY_SERVICE" help:"service name"`
	Tag            string `arg:"-t,--tag,env:RUNWAY_TAG" help:"image tag, defaults to HEAD short sha"`
	Source         string `arg:"--source,env:RUNWAY_SOURCE" help:"build context directory"`
	EnvFile        string `arg:"-e,--env-file,env:RUNWAY_ENV_FILE" help:"path to env/secret mapping file"`
	Memory         string `arg:"--memory,env:RUNWAY_MEMORY" help:"memory limit, e.g. 512Mi"`
	Cpu            string `arg:"--cpu,env:RUNWAY_CPU" help:"cpu limit, e.g. 1"`
	MaxInstances   string `arg:"--max-instances,env:RUNWAY_MAX_INSTANCES" help:"instance cap"`
	ServiceAccount string `arg:"--service-account,env:RUNWAY_SERVICE_ACCOUNT" help:"runtime service account"`
}

type Root struct {
	Ship     *param.Ship     `arg:"subcommand:ship" help:"Build and deploy the service"`
	Build    *param.Build    `arg:"subcommand:build" help:"Build an image without deploying"`
	Deploy   *param.Deploy   `arg:"subcommand:deploy" help:"Deploy an already-built image"`
	Describe *param.Describe `arg:"subcommand:describe" help:"Report the deployed service state"`
	Config   *param.Config   `arg:"subcommand:config" help:"Print resolved configuration"`
	GlobalOpts
}

func (c Root) Route(ctx context.Context, api sdk.API) error {
	switch {
	case c.Ship != nil:
		return method.Ship(ctx, api, c.Ship)

	case c.Build != nil:
		return method.BuildImage(ctx, api, c.Build)

	case c.Deploy != nil:
		return method.DeployImage(ctx, api, c.Deploy)

	case c.Describe != nil:
		return method.DescribeService(ctx, api, c.Describe)

	case c.Config != nil:
		return method.PrintConfig(ctx, api, c.Config)

	default:
		arg.MustParse(&c).WriteHelp(os.Stdout)
		return nil
	}
}
