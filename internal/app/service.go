package app

import (
	"context"

	"layerforge/internal/adapters"
	"layerforge/internal/ports"
	"layerforge/internal/types"
)

// PublisherFactory builds the cloud publisher boundary from explicit
// credentials. Indirected so tests can substitute a stub publisher.
type PublisherFactory func(ctx context.Context, credentials types.Credentials, opts adapters.PublishOptions) (ports.PublisherPort, error)

type Service struct {
	Credentials  ports.CredentialsPort
	LayerFile    ports.LayerFilePort
	Staging      ports.StagingPort
	Installer    ports.InstallerPort
	Archiver     ports.ArchiverPort
	NewPublisher PublisherFactory
}

func NewService() Service {
	return Service{
		Credentials: adapters.NewEnvCredentialsAdapter(".env"),
		LayerFile:   adapters.NewLayerFileAdapter(),
		Staging:     adapters.NewStagingAdapter(),
		Installer:   adapters.NewPipInstallAdapter(""),
		Archiver:    adapters.NewZipArchiveAdapter(),
		NewPublisher: func(ctx context.Context, credentials types.Credentials, opts adapters.PublishOptions) (ports.PublisherPort, error) {
			return adapters.NewLambdaPublishAdapter(ctx, credentials, opts)
		},
	}
}
