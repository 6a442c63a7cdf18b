package ports

import "layerforge/internal/types"

// LayerFilePort loads a layer definition from a spec file, as an
// alternative to passing the package list on the command line.
type LayerFilePort interface {
	Load(path string) (types.LayerFile, error)
}
