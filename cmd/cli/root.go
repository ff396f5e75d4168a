package cli

import (
	"context"
	"os"

	"github.com/alexflint/go-arg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Nice-2-Meet-U/runway/cmd/cli/router"
	"github.com/Nice-2-Meet-U/runway/pkg/convention/config"
	"github.com/Nice-2-Meet-U/runway/pkg/sdk"
)

// Version is stamped by the release build.
var Version = "dev"

func Invoke(ctx context.Context) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).With().Caller().Logger()

	var root router.Root
	arg.MustParse(&root)

	configEnv(root)

	cfg, err := config.Load(ctx, Version)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	api, err := sdk.Init(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize SDK")
	}

	if err := root.Route(ctx, api); err != nil {
		log.Fatal().Err(err).Strs("argv", os.Args).Msg("failed command")
	}
}

// Take options given to the CLI and export them to their respective
// environment variables, so config.Load sees one consistent surface.
func configEnv(root router.Root) {
	if root.GlobalOpts.Project != "" {
		os.Setenv(config.EnvProject, root.GlobalOpts.Project)
	}

	if root.GlobalOpts.Region != "" {
		os.Setenv(config.EnvRegion, root.GlobalOpts.Region)
	}

	if root.GlobalOpts.Service != "" {
		os.Setenv(config.EnvService, root.GlobalOpts.Service)
	}

	if root.GlobalOpts.Tag != "" {
		os.Setenv(config.EnvTag, root.GlobalOpts.Tag)
	}

	if root.GlobalOpts.Source != "" {
		os.Setenv(config.EnvSource, root.GlobalOpts.Source)
	}

	if root.GlobalOpts.EnvFile != "" {
		os.Setenv(config.EnvEnvFile, root.GlobalOpts.EnvFile)
	}

	if root.GlobalOpts.Memory != "" {
		os.Setenv(config.EnvMemory, root.GlobalOpts.Memory)
	}

	if root.GlobalOpts.Cpu != "" {
		os.Setenv(config.EnvCpu, root.GlobalOpts.Cpu)
	}

	if root.GlobalOpts.MaxInstances != "" {
		os.Setenv(config.EnvMaxInstances, root.GlobalOpts.MaxInstances)
	}

	if root.GlobalOpts.ServiceAccount != "" {
		os.Setenv(config.EnvServiceAccount, root.GlobalOpts.ServiceAccount)
	}
}
