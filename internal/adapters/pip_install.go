package adapters

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"layerforge/internal/ports"
	"layerforge/internal/shared"
	"layerforge/internal/types"
)

type PipInstallAdapter struct {
	// Python is the interpreter used to drive pip.
	Python string
	// IndexURL overrides the package index when set.
	IndexURL string
}

func NewPipInstallAdapter(indexURL string) PipInstallAdapter {
	return PipInstallAdapter{Python: "python3", IndexURL: indexURL}
}

// Install materializes the requirement set under targetDir. The first
// pass resolves wheels for the layer's runtime and platform; packages
// that only publish sdists make that pass fail, so a second pass falls
// back to a plain host install, which is correct for pure-Python
// distributions.
func (a PipInstallAdapter) Install(ctx context.Context, requirements []types.PackageRequirement, runtime types.Runtime, targetDir string) error {
	if len(requirements) == 0 {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("no requirements to install")
	}
	if strings.TrimSpace(targetDir) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("install target directory is empty")
	}
	crossErr := a.run(ctx, buildPipArgs(requirements, runtime, targetDir, a.IndexURL, true))
	if crossErr == nil {
		return nil
	}
	if ctx.Err() != nil {
		return a.timeoutError(ctx, crossErr)
	}
	log.Ctx(ctx).Debug().Msg("binary-only install failed, retrying with source fallback")
	if err := a.run(ctx, buildPipArgs(requirements, runtime, targetDir, a.IndexURL, false)); err != nil {
		if ctx.Err() != nil {
			return a.timeoutError(ctx, err)
		}
		return err
	}
	return nil
}

func (a PipInstallAdapter) run(ctx context.Context, args []string) error {
	python := a.Python
	if python == "" {
		python = "python3"
	}
	cmd := exec.CommandContext(ctx, python, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("pip install failed: %s", firstPipError(output))).
			WithCause(shared.CommandError(output, err))
	}
	return nil
}

func (a PipInstallAdapter) timeoutError(ctx context.Context, cause error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errbuilder.New().
			WithCode(errbuilder.CodeDeadlineExceeded).
			WithMsg("package installation timed out").
			WithCause(cause)
	}
	return errbuilder.New().
		WithCode(errbuilder.CodeAborted).
		WithMsg("package installation canceled").
		WithCause(cause)
}

func buildPipArgs(requirements []types.PackageRequirement, runtime types.Runtime, targetDir string, indexURL string, crossTarget bool) []string {
	args := []string{"-m", "pip", "install", "--target", targetDir, "--no-cache-dir", "--upgrade"}
	if crossTarget {
		target := runtime.Target()
		args = append(args,
			"--python-version", target.PipVersion,
			"--platform", target.PipPlatform,
			"--implementation", "cp",
			"--only-binary=:all:",
		)
	}
	if strings.TrimSpace(indexURL) != "" {
		args = append(args, "--index-url", indexURL)
	}
	for _, req := range requirements {
		args = append(args, req.String())
	}
	return args
}

// firstPipError pulls the first ERROR line out of pip's output so the
// offending package shows up in the surfaced message without dumping
// the full install log.
func firstPipError(output []byte) string {
	for _, line := range strings.Split(string(output), "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "ERROR:") {
			return trimmed
		}
	}
	return "see install output"
}

var _ ports.InstallerPort = PipInstallAdapter{}
