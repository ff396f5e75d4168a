package fault

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Stage names the pipeline step a failure surfaced from. It is printed on exit
// so a failed run always reports where it died.
type Stage string

const (
	StageConfig   Stage = "config"
	StageBuild    Stage = "build"
	StageDeploy   Stage = "deploy"
	StageDescribe Stage = "describe"
)

type ConfigurationError struct {
	Field  string
	Reason string
}

func (e ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s: %s", e.Field, e.Reason)
}

// BuildFailure is a terminal non-success reported by the build service itself,
// as opposed to a failure reaching it.
type BuildFailure struct {
	BuildId string
	Status  string
	Detail  string
	LogUrl  string
}

func (e BuildFailure) Error() string {
	msg := fmt.Sprintf("build %s finished %s", e.BuildId, e.Status)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.LogUrl != "" {
		msg += " (logs: " + e.LogUrl + ")"
	}
	return msg
}

// DeployFailure carries the platform's diagnostic payload verbatim.
type DeployFailure struct {
	Service string
	Code    string
	Message string
}

func (e DeployFailure) Error() string {
	return fmt.Sprintf("deploy %s failed %s: %s", e.Service, e.Code, e.Message)
}

type TransportError struct {
	Stage Stage
	Err   error
}

func (e TransportError) Error() string {
	return fmt.Sprintf("transport failure during %s: %v", e.Stage, e.Err)
}

func (e TransportError) Unwrap() error {
	return e.Err
}

// TimedOut means the bounded wait expired. The remote operation is not
// cancelled and may still complete on the platform side.
type TimedOut struct {
	Stage Stage
	After time.Duration
}

func (e TimedOut) Error() string {
	return fmt.Sprintf("%s did not finish within %s (remote operation may still be running)", e.Stage, e.After)
}

type NotFound struct {
	Resource string
}

func (e NotFound) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

func IsNotFound(err error) bool {
	var nf NotFound
	return errors.As(err, &nf)
}

// FromRPC classifies an error returned by a platform client call. Absence and
// deadline expiry get their own kinds; everything else reaching the wire is a
// transport failure.
func FromRPC(stage Stage, resource string, wait time.Duration, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return TimedOut{Stage: stage, After: wait}
	}

	if s, ok := status.FromError(err); ok {
		switch s.Code() {
		case codes.NotFound:
			return NotFound{Resource: resource}
		case codes.DeadlineExceeded:
			return TimedOut{Stage: stage, After: wait}
		}
	}

	return TransportError{Stage: stage, Err: err}
}
