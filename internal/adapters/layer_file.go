package adapters

import (
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"layerforge/internal/ports"
	"layerforge/internal/types"
)

type LayerFileAdapter struct{}

func NewLayerFileAdapter() LayerFileAdapter {
	return LayerFileAdapter{}
}

func (a LayerFileAdapter) Load(path string) (types.LayerFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.LayerFile{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("layer file not found").
			WithCause(err)
	}
	var file types.LayerFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return types.LayerFile{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse layer file yaml").
			WithCause(err)
	}
	if len(file.Packages) == 0 {
		return types.LayerFile{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("layer file has no packages")
	}
	for i, pkg := range file.Packages {
		file.Packages[i] = strings.TrimSpace(pkg)
	}
	return file, nil
}

var _ ports.LayerFilePort = LayerFileAdapter{}
