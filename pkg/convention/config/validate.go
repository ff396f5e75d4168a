package config

import (
	"regexp"

	"github.com/Nice-2-Meet-U/runway/internal/fault"
)

var (
	memoryShape = regexp.MustCompile(`^[0-9]+(Mi|Gi)$`)
	cpuShape    = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

	// Keys that name credentials. Values for these must arrive as secret
	// references, never as plain environment values.
	credentialKey = regexp.MustCompile(`(?i)(password|passwd|secret|token|credential|api[_-]?key|private[_-]?key|access[_-]?key)`)
)

// Validate enforces the spec invariants before any remote call is made.
func (c Config) Validate() error {
	if c.Project.Id == "" {
		return fault.ConfigurationError{Field: "project", Reason: "required"}
	}

	if c.Project.Region == "" {
		return fault.ConfigurationError{Field: "region", Reason: "required"}
	}

	if c.Service.Name == "" {
		return fault.ConfigurationError{Field: "service", Reason: "required"}
	}

	if !memoryShape.MatchString(c.Resources.Memory) {
		return fault.ConfigurationError{
			Field:  "memory",
			Reason: "expected a quantity like 512Mi or 1Gi, got " + c.Resources.Memory,
		}
	}

	if !cpuShape.MatchString(c.Resources.Cpu) {
		return fault.ConfigurationError{
			Field:  "cpu",
			Reason: "expected a count like 1 or 2, got " + c.Resources.Cpu,
		}
	}

	if c.Resources.MaxInstances < 1 {
		return fault.ConfigurationError{Field: "max-instances", Reason: "must be at least 1"}
	}

	if c.Resources.RequestTimeout <= 0 {
		return fault.ConfigurationError{Field: "request-timeout", Reason: "must be positive"}
	}

	for key := range c.Env {
		if credentialKey.MatchString(key) {
			return fault.ConfigurationError{
				Field:  "env." + key,
				Reason: "looks like a credential; move it under secrets: as a secret-store reference",
			}
		}
	}

	for key, ref := range c.Secrets {
		if ref.Name == "" || ref.Version == "" {
			return fault.ConfigurationError{Field: "secrets." + key, Reason: "incomplete secret reference"}
		}
	}

	return nil
}
