package ports

import (
	"context"

	"layerforge/internal/types"
)

// InstallerPort materializes a requirement set into a target directory,
// resolving wheels against the selected runtime rather than the host
// interpreter. Blocking; honors ctx cancellation and deadlines.
type InstallerPort interface {
	Install(ctx context.Context, requirements []types.PackageRequirement, runtime types.Runtime, targetDir string) error
}
