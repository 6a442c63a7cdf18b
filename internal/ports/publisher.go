package ports

import (
	"context"

	"layerforge/internal/types"
)

// PublisherPort is the cloud API boundary. Retry policy for transient
// remote failures lives entirely behind this interface; callers treat a
// returned error as final.
type PublisherPort interface {
	PublishLayerVersion(ctx context.Context, spec types.LayerSpec, artifact types.StagingArtifact) (types.PublishResult, error)
	GetLayerVersion(ctx context.Context, layerARN string) (types.LayerVersionInfo, error)
}

// CredentialsPort supplies cloud credentials and region. Absence of any
// required credential is a configuration error reported before build
// work starts.
type CredentialsPort interface {
	Load() (types.Credentials, error)
}
