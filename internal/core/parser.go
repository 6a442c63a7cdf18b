package core

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	pep440 "github.com/aquasecurity/go-pep440-version"

	"layerforge/internal/shared"
	"layerforge/internal/types"
)

// opTokens is the ordered list of specifier operators tried during
// parsing. Longer tokens must precede shorter ones to avoid false
// matches (e.g. ">=" before ">").
var opTokens = []types.ConstraintOp{
	types.ConstraintOpGte,
	types.ConstraintOpLte,
	types.ConstraintOpCompat,
	types.ConstraintOpNe,
	types.ConstraintOpEq,
	types.ConstraintOpGt,
	types.ConstraintOpLt,
}

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// ParseRequirements parses a comma-separated package specifier string
// into an ordered requirement list. Input order is preserved because the
// layer name derivation depends on the full requirement set. Duplicate
// package names are rejected under PEP 503 normalization, so
// "Foo_Bar" and "foo-bar" count as the same package.
func ParseRequirements(raw string) ([]types.PackageRequirement, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("package list is empty")
	}
	tokens := strings.Split(trimmed, ",")
	requirements := make([]types.PackageRequirement, 0, len(tokens))
	seen := map[string]string{}
	for _, token := range tokens {
		req, err := parseRequirement(token)
		if err != nil {
			return nil, err
		}
		normalized := shared.NormalizePipName(req.Name)
		if previous, ok := seen[normalized]; ok {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("duplicate package %q (already given as %q)", req.Name, previous))
		}
		seen[normalized] = req.Name
		requirements = append(requirements, req)
	}
	return requirements, nil
}

// parseRequirement splits a raw "name>=version" token into a
// PackageRequirement. When no operator is found the token is treated as
// a bare package name.
func parseRequirement(raw string) (types.PackageRequirement, error) {
	token := strings.TrimSpace(raw)
	if token == "" {
		return types.PackageRequirement{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("empty package specifier")
	}
	for _, op := range opTokens {
		if !strings.Contains(token, string(op)) {
			continue
		}
		parts := strings.SplitN(token, string(op), 2)
		name := strings.TrimSpace(parts[0])
		version := strings.TrimSpace(parts[1])
		if name == "" || version == "" {
			return types.PackageRequirement{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("invalid specifier: %s", token))
		}
		if err := validateName(name); err != nil {
			return types.PackageRequirement{}, err
		}
		if _, err := pep440.NewSpecifiers(string(op) + version); err != nil {
			return types.PackageRequirement{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("invalid version %q for package %s", version, name)).
				WithCause(err)
		}
		return types.PackageRequirement{Name: name, Op: op, Version: version}, nil
	}
	if err := validateName(token); err != nil {
		return types.PackageRequirement{}, err
	}
	return types.PackageRequirement{Name: token, Op: types.ConstraintOpNone}, nil
}

func validateName(name string) error {
	if !namePattern.MatchString(name) {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid package name: %s", name))
	}
	return nil
}
