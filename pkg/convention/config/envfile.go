package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Nice-2-Meet-U/runway/internal/fault"
)

type envFile struct {
	Env     map[string]string `yaml:"env"`
	Secrets map[string]string `yaml:"secrets"`
}

// ReadEnvFile parses the env/secret mapping file. Plain values go to the
// service environment as-is; secret values are references into the secret
// store, either gcloud-style "name:version" or a full
// projects/*/secrets/*/versions/* resource name.
func ReadEnvFile(path string) (map[string]string, map[string]SecretRef, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fault.ConfigurationError{Field: "env-file", Reason: err.Error()}
	}

	var parsed envFile
	if err := yaml.Unmarshal(content, &parsed); err != nil {
		return nil, nil, fault.ConfigurationError{Field: "env-file", Reason: err.Error()}
	}

	envs := map[string]string{}
	for key, value := range parsed.Env {
		envs[key] = value
	}

	secrets := map[string]SecretRef{}
	for key, value := range parsed.Secrets {
		ref, err := ParseSecretRef(value)
		if err != nil {
			return nil, nil, err
		}
		secrets[key] = ref
	}

	return envs, secrets, nil
}

func ParseSecretRef(value string) (SecretRef, error) {
	if value == "" {
		return SecretRef{}, fault.ConfigurationError{Field: "secrets", Reason: "empty secret reference"}
	}

	if strings.HasPrefix(value, "projects/") {
		parts := strings.Split(value, "/")
		if len(parts) != 6 || parts[2] != "secrets" || parts[4] != "versions" {
			return SecretRef{}, fault.ConfigurationError{
				Field:  "secrets",
				Reason: "expected projects/*/secrets/*/versions/*, got " + value,
			}
		}
		return SecretRef{Name: parts[3], Version: parts[5]}, nil
	}

	if name, version, found := strings.Cut(value, ":"); found {
		if name == "" || version == "" {
			return SecretRef{}, fault.ConfigurationError{
				Field:  "secrets",
				Reason: "expected name:version, got " + value,
			}
		}
		return SecretRef{Name: name, Version: version}, nil
	}

	return SecretRef{Name: value, Version: "latest"}, nil
}
