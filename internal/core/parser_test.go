package core

import (
	"strings"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"layerforge/internal/types"
)

func TestParseRequirementsBareName(t *testing.T) {
	reqs, err := ParseRequirements("requests")
	require.NoError(t, err)
	want := []types.PackageRequirement{
		{Name: "requests", Op: types.ConstraintOpNone},
	}
	if diff := cmp.Diff(want, reqs); diff != "" {
		t.Fatalf("unexpected requirements (-want +got):\n%s", diff)
	}
}

func TestParseRequirementsAllOperators(t *testing.T) {
	cases := []struct {
		input string
		op    types.ConstraintOp
	}{
		{"pkg==1.0.0", types.ConstraintOpEq},
		{"pkg>=1.0.0", types.ConstraintOpGte},
		{"pkg<=1.0.0", types.ConstraintOpLte},
		{"pkg~=1.0.0", types.ConstraintOpCompat},
		{"pkg!=1.0.0", types.ConstraintOpNe},
		{"pkg>1.0.0", types.ConstraintOpGt},
		{"pkg<1.0.0", types.ConstraintOpLt},
	}
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			reqs, err := ParseRequirements(tc.input)
			require.NoError(t, err)
			require.Len(t, reqs, 1)
			assert.Equal(t, "pkg", reqs[0].Name)
			assert.Equal(t, tc.op, reqs[0].Op)
			assert.Equal(t, "1.0.0", reqs[0].Version)
		})
	}
}

func TestParseRequirementsPreservesOrderAndCount(t *testing.T) {
	input := "zope,boto3>=1.26.1,requests==2.28.0,pydantic~=2.5"
	reqs, err := ParseRequirements(input)
	require.NoError(t, err)
	require.Len(t, reqs, strings.Count(input, ",")+1)
	names := make([]string, 0, len(reqs))
	for _, req := range reqs {
		names = append(names, req.Name)
	}
	assert.Equal(t, []string{"zope", "boto3", "requests", "pydantic"}, names)
}

func TestParseRequirementsWhitespaceTolerant(t *testing.T) {
	reqs, err := ParseRequirements("  requests == 2.28.0 , boto3 ")
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.Equal(t, "requests==2.28.0", reqs[0].String())
	assert.Equal(t, "boto3", reqs[1].String())
}

func TestParseRequirementsEmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\t\n"} {
		_, err := ParseRequirements(input)
		require.Error(t, err)
		assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
	}
}

func TestParseRequirementsEmptyToken(t *testing.T) {
	_, err := ParseRequirements("requests,,boto3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty package specifier")
}

func TestParseRequirementsInvalidName(t *testing.T) {
	for _, input := range []string{"re quests", "pkg$", "näme"} {
		_, err := ParseRequirements(input)
		require.Error(t, err, "input %q", input)
		assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
	}
}

func TestParseRequirementsMalformedVersion(t *testing.T) {
	for _, input := range []string{"pkg==", "pkg==not a version", "==1.0"} {
		_, err := ParseRequirements(input)
		require.Error(t, err, "input %q", input)
		assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
	}
}

func TestParseRequirementsDuplicateExact(t *testing.T) {
	_, err := ParseRequirements("pandas!=1.5.0,pandas==1.5.1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate package")
}

func TestParseRequirementsDuplicateNormalized(t *testing.T) {
	// Case and underscore/hyphen differences still name the same package.
	for _, input := range []string{
		"Requests,requests==2.28.0",
		"typing_extensions,typing-extensions>=4.0",
	} {
		_, err := ParseRequirements(input)
		require.Error(t, err, "input %q", input)
		assert.Contains(t, err.Error(), "duplicate package")
	}
}
