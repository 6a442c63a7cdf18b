package types

import (
	"errors"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// Stage identifies which pipeline stage an error escaped from.
type Stage string

const (
	StageConfig  Stage = "config"
	StageParse   Stage = "parse"
	StageBuild   Stage = "build"
	StagePublish Stage = "publish"
)

// Kind is the stable machine-readable error classification exposed to
// JSON consumers. Values must not change between releases.
type Kind string

const (
	KindInvalidSpec   Kind = "invalid-spec"
	KindConfiguration Kind = "configuration"
	KindInstall       Kind = "install"
	KindPackaging     Kind = "packaging"
	KindSizeLimit     Kind = "size-limit"
	KindRemoteAPI     Kind = "remote-api"
	KindTimeout       Kind = "timeout"
	KindInternal      Kind = "internal"
)

// StageError annotates an error with the stage and kind it belongs to.
// The underlying error keeps its errbuilder code for exit-code mapping.
type StageError struct {
	Stage Stage
	Kind  Kind
	Err   error
}

func (e *StageError) Error() string {
	return string(e.Stage) + ": " + e.Err.Error()
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// WrapStage attaches stage and kind context to an error, refining the
// kind for the cross-cutting timeout and size-limit cases. Wrapping nil
// returns nil so call sites can wrap unconditionally.
func WrapStage(stage Stage, kind Kind, err error) error {
	if err == nil {
		return nil
	}
	var staged *StageError
	if errors.As(err, &staged) {
		return err
	}
	switch errbuilder.CodeOf(err) {
	case errbuilder.CodeDeadlineExceeded:
		kind = KindTimeout
	case errbuilder.CodeResourceExhausted:
		kind = KindSizeLimit
	}
	return &StageError{Stage: stage, Kind: kind, Err: err}
}

// Failure is the stable structured error payload surfaced to callers in
// place of a result. Renderable as text or JSON by the CLI layer.
type Failure struct {
	Stage   string `json:"stage"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// FailureFrom flattens any error into a Failure. Errors that never went
// through WrapStage come out with an internal kind and empty stage.
func FailureFrom(err error) Failure {
	failure := Failure{Kind: string(KindInternal), Message: errorMessage(err)}
	var staged *StageError
	if errors.As(err, &staged) {
		failure.Stage = string(staged.Stage)
		failure.Kind = string(staged.Kind)
	}
	return failure
}

func errorMessage(err error) string {
	if err == nil {
		return ""
	}
	var builder *errbuilder.ErrBuilder
	if errors.As(err, &builder) && builder.Msg != "" {
		return builder.Msg
	}
	return err.Error()
}
