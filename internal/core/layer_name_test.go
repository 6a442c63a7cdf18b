package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"layerforge/internal/types"
)

func mustParse(t *testing.T, input string) []types.PackageRequirement {
	t.Helper()
	reqs, err := ParseRequirements(input)
	require.NoError(t, err)
	return reqs
}

func TestDeriveLayerNameSinglePackage(t *testing.T) {
	assert.Equal(t, "layer-requests", DeriveLayerName(mustParse(t, "requests")))
}

func TestDeriveLayerNameMultipleSorted(t *testing.T) {
	assert.Equal(t, "layer-boto3-requests", DeriveLayerName(mustParse(t, "boto3>=1.26.1,requests==2.28.0")))
}

func TestDeriveLayerNameOrderIndependent(t *testing.T) {
	a := DeriveLayerName(mustParse(t, "requests,boto3,pydantic"))
	b := DeriveLayerName(mustParse(t, "pydantic,requests,boto3"))
	assert.Equal(t, a, b)
}

func TestDeriveLayerNameDeterministic(t *testing.T) {
	reqs := mustParse(t, "numpy,pandas")
	assert.Equal(t, DeriveLayerName(reqs), DeriveLayerName(reqs))
}

func TestDeriveLayerNameTruncatesAtThree(t *testing.T) {
	name := DeriveLayerName(mustParse(t, "delta,alpha,echo,bravo,charlie"))
	assert.Equal(t, "layer-alpha-bravo-charlie", name)
}

func TestDeriveLayerNameStripsDisallowedChars(t *testing.T) {
	// Dots are valid in package names but not in layer names.
	name := DeriveLayerName(mustParse(t, "ruamel.yaml"))
	assert.Equal(t, "layer-ruamelyaml", name)
}

func TestDeriveLayerNameLowercases(t *testing.T) {
	assert.Equal(t, "layer-django", DeriveLayerName(mustParse(t, "Django")))
}

func TestDeriveDescription(t *testing.T) {
	desc := DeriveDescription(mustParse(t, "requests==2.28.0,pydantic"), types.RuntimePython311)
	assert.Equal(t, "Python python3.11 layer with: requests 2.28.0, pydantic", desc)
}
