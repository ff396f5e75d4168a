package method

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Nice-2-Meet-U/runway/cmd/cli/param"
	"github.com/Nice-2-Meet-U/runway/cmd/cli/view"
	"github.com/Nice-2-Meet-U/runway/pkg/sdk"
)

// Ship runs the full pipeline. Stdout carries only the resulting service URL
// (or the receipt as JSON); progress goes to the log on stderr.
func Ship(ctx context.Context, api sdk.API, p *param.Ship) error {
	receipt, err := api.Pipeline.Run(ctx, "")
	if err != nil {
		return err
	}

	if p.Json {
		rendered, err := view.Receipt(receipt).Json()
		if err != nil {
			return err
		}
		fmt.Println(rendered)
		return nil
	}

	log.Info().
		Str("revision", receipt.Deployment.Revision()).
		Bool("ready", receipt.Deployment.Ready()).
		Msg("service deployed")

	fmt.Println(receipt.Deployment.Url())
	return nil
}

func BuildImage(ctx context.Context, api sdk.API, p *param.Build) error {
	build, err := api.Release.Publish(ctx)
	if err != nil {
		return err
	}

	if p.Json {
		rendered, err := view.Built(build).Json()
		if err != nil {
			return err
		}
		fmt.Println(rendered)
		return nil
	}

	log.Info().Str("logs", build.LogLocation()).Msg("build succeeded")

	fmt.Println(build.Uri)
	return nil
}

func DeployImage(ctx context.Context, api sdk.API, p *param.Deploy) error {
	image := p.Image
	if image == "" {
		image = api.Config.ImageUri()
	}

	receipt, err := api.Pipeline.Run(ctx, image)
	if err != nil {
		return err
	}

	if p.Json {
		rendered, err := view.Receipt(receipt).Json()
		if err != nil {
			return err
		}
		fmt.Println(rendered)
		return nil
	}

	fmt.Println(receipt.Deployment.Url())
	return nil
}

func DescribeService(ctx context.Context, api sdk.API, p *param.Describe) error {
	deployed, err := api.Deployment.Describe(ctx)
	if err != nil {
		return err
	}

	if p.Json {
		rendered, err := view.Descriptor(deployed).Json()
		if err != nil {
			return err
		}
		fmt.Println(rendered)
		return nil
	}

	fmt.Println(view.Descriptor(deployed).Render())
	return nil
}

func PrintConfig(ctx context.Context, api sdk.API, p *param.Config) error {
	rendered, err := api.Config.Json(ctx)
	if err != nil {
		return err
	}

	fmt.Println(rendered)
	return nil
}
