package config

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/Nice-2-Meet-U/runway/internal/fault"
	"github.com/Nice-2-Meet-U/runway/internal/gitlib"
	"github.com/Nice-2-Meet-U/runway/internal/util"
)

// Environment variable names the CLI exports flag values into before Load runs.
const (
	EnvProject        = "RUNWAY_PROJECT"
	EnvRegion         = "RUNWAY_REGION"
	EnvService        = "RUNWAY_SERVICE"
	EnvTag            = "RUNWAY_TAG"
	EnvSource         = "RUNWAY_SOURCE"
	EnvEnvFile        = "RUNWAY_ENV_FILE"
	EnvMemory         = "RUNWAY_MEMORY"
	EnvCpu            = "RUNWAY_CPU"
	EnvMaxInstances   = "RUNWAY_MAX_INSTANCES"
	EnvServiceAccount = "RUNWAY_SERVICE_ACCOUNT"
)

type Project struct {
	Id     string `env:"PROJECT"`
	Region string `env:"REGION"`
}

type Service struct {
	Name           string `env:"SERVICE"`
	ServiceAccount string `env:"SERVICE_ACCOUNT"`
}

type Image struct {
	Registry string `env:"REGISTRY" envDefault:"gcr.io"`
	Tag      string `env:"TAG"`
}

type Build struct {
	Source  string        `env:"SOURCE" envDefault:"."`
	Bucket  string        `env:"BUILD_BUCKET"`
	Timeout time.Duration `env:"BUILD_TIMEOUT" envDefault:"15m"`
}

type Deploy struct {
	Timeout time.Duration `env:"DEPLOY_TIMEOUT" envDefault:"10m"`
}

type Resources struct {
	Memory         string        `env:"MEMORY" envDefault:"512Mi"`
	Cpu            string        `env:"CPU" envDefault:"1"`
	MaxInstances   int32         `env:"MAX_INSTANCES" envDefault:"3"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"5m"`
}

// SecretRef points into the platform's secret store. The orchestrator only
// ever handles the reference; the platform resolves the value at revision start.
type SecretRef struct {
	Name    string
	Version string
}

func (r SecretRef) String() string {
	return r.Name + ":" + r.Version
}

// Config is the complete description of one deployment request. Constructed
// once per invocation by Load, validated, and treated as immutable after.
type Config struct {
	Project   Project
	Service   Service
	Image     Image
	Build     Build
	Deploy    Deploy
	Resources Resources
	EnvFile   string               `env:"ENV_FILE"`
	Env       map[string]string    `json:",omitempty"`
	Secrets   map[string]SecretRef `json:",omitempty"`
	Git       gitlib.DotGit
	Version   string
}

// Load assembles configuration from .env, process environment, and the
// optional env/secret mapping file, then validates the result.
func Load(ctx context.Context, version string) (Config, error) {
	// .env is a local development convenience; absence is the normal case.
	_ = godotenv.Load()

	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "RUNWAY_"}); err != nil {
		return Config{}, fault.ConfigurationError{Field: "environment", Reason: err.Error()}
	}

	cfg.Version = version
	cfg.Env = map[string]string{}
	cfg.Secrets = map[string]SecretRef{}

	if cfg.EnvFile != "" {
		envs, secrets, err := ReadEnvFile(cfg.EnvFile)
		if err != nil {
			return Config{}, err
		}
		cfg.Env = envs
		cfg.Secrets = secrets
	}

	if dotGit, err := gitlib.FromPath(cfg.Build.Source); err == nil {
		cfg.Git = dotGit
	} else {
		log.Debug().Err(err).Msg("source is not a git worktree")
	}

	if cfg.Image.Tag == "" {
		if cfg.Git.Sha == "" {
			return Config{}, fault.ConfigurationError{
				Field:  "image.tag",
				Reason: "no tag given and source is not a git worktree",
			}
		}

		if cfg.Git.Dirty {
			return Config{}, fault.ConfigurationError{
				Field:  "image.tag",
				Reason: "working tree is dirty; commit or pass an explicit tag",
			}
		}

		cfg.Image.Tag = util.ShortSha(cfg.Git.Sha)
	}

	if cfg.Build.Bucket == "" {
		cfg.Build.Bucket = cfg.Project.Id + "_cloudbuild"
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// derived information

func (c Config) ImageUri() string {
	return c.Image.Registry + "/" + c.Project.Id + "/" + c.Service.Name + ":" + c.Image.Tag
}

func (c Config) LocationName() string {
	return fmt.Sprintf("projects/%s/locations/%s", c.Project.Id, c.Project.Region)
}

func (c Config) ServiceName() string {
	return c.LocationName() + "/services/" + c.Service.Name
}

func (c Config) Json(ctx context.Context) (string, error) {
	cJson, err := json.Marshal(c)
	if err != nil {
		return "", err
	}

	return string(cJson), nil
}
