package app

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"layerforge/internal/adapters"
	"layerforge/internal/core"
	"layerforge/internal/shared"
	"layerforge/internal/types"
)

// Generate runs the full pipeline: parse the specifier string, derive
// the layer identity, build and package the staging tree, and publish
// the archive. The staging directory is released on every exit path.
func (s Service) Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error) {
	log.Ctx(ctx).Info().Msg("parsing")

	packages := req.Packages
	description := strings.TrimSpace(req.Description)
	runtimeValue := strings.TrimSpace(req.Runtime)
	if req.LayerFilePath != "" {
		file, err := s.LayerFile.Load(req.LayerFilePath)
		if err != nil {
			return GenerateResult{}, types.WrapStage(types.StageParse, types.KindInvalidSpec, err)
		}
		packages = strings.Join(file.Packages, ",")
		if description == "" {
			description = file.Description
		}
		if runtimeValue == "" {
			runtimeValue = file.Runtime
		}
	}

	runtime, ok := types.ParseRuntime(runtimeValue)
	if !ok {
		return GenerateResult{}, types.WrapStage(types.StageParse, types.KindInvalidSpec, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported runtime %q (supported: %s)", runtimeValue, supportedRuntimeList())))
	}

	requirements, err := core.ParseRequirements(packages)
	if err != nil {
		return GenerateResult{}, types.WrapStage(types.StageParse, types.KindInvalidSpec, err)
	}

	layerName := core.DeriveLayerName(requirements)
	if description == "" {
		description = core.DeriveDescription(requirements, runtime)
	}
	assert.NotEmpty(ctx, layerName, "derived layer name must not be empty")
	spec := types.LayerSpec{
		Requirements: requirements,
		Runtime:      runtime,
		LayerName:    layerName,
		Description:  description,
	}

	// Credentials are checked before any build work starts so a missing
	// configuration never costs an install.
	credentials, err := s.Credentials.Load()
	if err != nil {
		return GenerateResult{}, types.WrapStage(types.StageConfig, types.KindConfiguration, err)
	}
	publisher, err := s.NewPublisher(ctx, credentials, adapters.PublishOptions{
		S3Bucket:     req.S3Bucket,
		Endpoint:     req.Endpoint,
		Retries:      req.Retries,
		RetryDelayMs: req.RetryDelayMs,
	})
	if err != nil {
		return GenerateResult{}, types.WrapStage(types.StageConfig, types.KindConfiguration, err)
	}

	log.Ctx(ctx).Info().Str("layer", layerName).Str("runtime", string(runtime)).Msg("building")
	artifact, err := s.buildArtifact(ctx, spec, req.TimeoutSec)
	if err != nil {
		return GenerateResult{}, err
	}
	defer func() {
		_ = os.Remove(artifact.ArchivePath)
	}()

	if artifact.SizeBytes > types.MaxZippedBytes && req.S3Bucket == "" {
		return GenerateResult{}, types.WrapStage(types.StageBuild, types.KindSizeLimit, errbuilder.New().
			WithCode(errbuilder.CodeResourceExhausted).
			WithMsg(fmt.Sprintf("layer archive is %s, above the %s inline upload ceiling; configure an upload bucket",
				shared.FormatMB(artifact.SizeBytes), shared.FormatMB(types.MaxZippedBytes))))
	}

	log.Ctx(ctx).Info().Str("size", shared.FormatMB(artifact.SizeBytes)).Msg("uploading")
	result, err := publishWithTimeout(ctx, publisher.PublishLayerVersion, spec, artifact, req.TimeoutSec)
	if err != nil {
		return GenerateResult{}, types.WrapStage(types.StagePublish, types.KindRemoteAPI, err)
	}

	log.Ctx(ctx).Info().Str("arn", result.LayerARN).Int64("version", result.Version).Msg("done")
	packageList := make([]string, 0, len(requirements))
	for _, r := range requirements {
		packageList = append(packageList, r.String())
	}
	return GenerateResult{
		LayerARN:    result.LayerARN,
		LayerName:   layerName,
		Version:     result.Version,
		Description: description,
		Runtime:     string(runtime),
		Region:      credentials.Region,
		Packages:    packageList,
		SizeBytes:   artifact.SizeBytes,
		CreatedAt:   result.CreatedAt,
	}, nil
}

// buildArtifact installs, prunes, and packages the layer inside a
// staging directory that is removed before this function returns,
// whatever path it returns on.
func (s Service) buildArtifact(ctx context.Context, spec types.LayerSpec, timeoutSec int) (types.StagingArtifact, error) {
	staging, err := s.Staging.Acquire()
	if err != nil {
		return types.StagingArtifact{}, types.WrapStage(types.StageBuild, types.KindPackaging, err)
	}
	defer func() {
		if rerr := staging.Release(); rerr != nil {
			log.Ctx(ctx).Warn().Err(rerr).Msg("staging directory not fully released")
		}
	}()

	installCtx := ctx
	if timeoutSec > 0 {
		var cancel context.CancelFunc
		installCtx, cancel = context.WithTimeout(ctx, time.Duration(timeoutSec)*time.Second)
		defer cancel()
	}
	if err := s.Installer.Install(installCtx, spec.Requirements, spec.Runtime, staging.PackageDir()); err != nil {
		return types.StagingArtifact{}, types.WrapStage(types.StageBuild, types.KindInstall, err)
	}

	removed, err := staging.Prune()
	if err != nil {
		return types.StagingArtifact{}, types.WrapStage(types.StageBuild, types.KindPackaging, err)
	}
	log.Ctx(ctx).Debug().Int("removed", removed).Msg("pruned staging tree")

	archivePath := staging.Root() + ".zip"
	zipped, unzipped, err := s.Archiver.Compress(ctx, staging.Root(), archivePath)
	if err != nil {
		_ = os.Remove(archivePath)
		return types.StagingArtifact{}, types.WrapStage(types.StageBuild, types.KindPackaging, err)
	}
	if unzipped > types.MaxUnzippedBytes {
		_ = os.Remove(archivePath)
		return types.StagingArtifact{}, types.WrapStage(types.StageBuild, types.KindSizeLimit, errbuilder.New().
			WithCode(errbuilder.CodeResourceExhausted).
			WithMsg(fmt.Sprintf("layer contents are %s unzipped, above the %s platform ceiling",
				shared.FormatMB(unzipped), shared.FormatMB(types.MaxUnzippedBytes))))
	}
	return types.StagingArtifact{
		ArchivePath:   archivePath,
		SizeBytes:     zipped,
		UnzippedBytes: unzipped,
	}, nil
}

type publishFunc func(ctx context.Context, spec types.LayerSpec, artifact types.StagingArtifact) (types.PublishResult, error)

func publishWithTimeout(ctx context.Context, publish publishFunc, spec types.LayerSpec, artifact types.StagingArtifact, timeoutSec int) (types.PublishResult, error) {
	if timeoutSec > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(timeoutSec)*time.Second)
		defer cancel()
	}
	return publish(ctx, spec, artifact)
}

func supportedRuntimeList() string {
	runtimes := types.SupportedRuntimes()
	names := make([]string, 0, len(runtimes))
	for _, rt := range runtimes {
		names = append(names, string(rt))
	}
	return strings.Join(names, ", ")
}
