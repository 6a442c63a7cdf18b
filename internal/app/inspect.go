package app

import (
	"context"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"layerforge/internal/adapters"
	"layerforge/internal/types"
)

// Inspect looks up an already-published layer version by its ARN.
func (s Service) Inspect(ctx context.Context, req InspectRequest) (InspectResult, error) {
	layerARN := strings.TrimSpace(req.LayerARN)
	if layerARN == "" {
		return InspectResult{}, types.WrapStage(types.StageParse, types.KindInvalidSpec, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("layer ARN is required"))
	}

	credentials, err := s.Credentials.Load()
	if err != nil {
		return InspectResult{}, types.WrapStage(types.StageConfig, types.KindConfiguration, err)
	}
	publisher, err := s.NewPublisher(ctx, credentials, adapters.PublishOptions{
		Endpoint:     req.Endpoint,
		Retries:      req.Retries,
		RetryDelayMs: req.RetryDelayMs,
	})
	if err != nil {
		return InspectResult{}, types.WrapStage(types.StageConfig, types.KindConfiguration, err)
	}

	lookupCtx := ctx
	if req.TimeoutSec > 0 {
		var cancel context.CancelFunc
		lookupCtx, cancel = context.WithTimeout(ctx, time.Duration(req.TimeoutSec)*time.Second)
		defer cancel()
	}
	info, err := publisher.GetLayerVersion(lookupCtx, layerARN)
	if err != nil {
		return InspectResult{}, types.WrapStage(types.StagePublish, types.KindRemoteAPI, err)
	}
	return InspectResult{
		LayerARN:      info.LayerARN,
		Version:       info.Version,
		Description:   info.Description,
		CreatedAt:     info.CreatedAt,
		Runtimes:      info.Runtimes,
		Architectures: info.Architectures,
	}, nil
}
