package core

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"layerforge/internal/types"
)

// layerNameCharset matches the characters the platform accepts in a
// layer name; everything else is stripped during derivation.
var layerNameStrip = regexp.MustCompile(`[^a-z0-9_-]`)

// maxNamedPackages caps how many package names appear in the derived
// layer name. Packages beyond the cap stay in the install set, they are
// just dropped from the label.
const maxNamedPackages = 3

// DeriveLayerName builds a deterministic layer name from the parsed
// requirement set. The result is independent of input order: names are
// lowercased, stripped of version info, sorted, and truncated to the
// first three before joining.
func DeriveLayerName(requirements []types.PackageRequirement) string {
	names := make([]string, 0, len(requirements))
	for _, req := range requirements {
		cleaned := layerNameStrip.ReplaceAllString(strings.ToLower(req.Name), "")
		if cleaned != "" {
			names = append(names, cleaned)
		}
	}
	sort.Strings(names)
	if len(names) > maxNamedPackages {
		names = names[:maxNamedPackages]
	}
	return "layer-" + strings.Join(names, "-")
}

// DeriveDescription summarizes the layer contents for the published
// layer version, pinning the version where the specifier carries one.
func DeriveDescription(requirements []types.PackageRequirement, runtime types.Runtime) string {
	details := make([]string, 0, len(requirements))
	for _, req := range requirements {
		if req.Version != "" {
			details = append(details, req.Name+" "+req.Version)
			continue
		}
		details = append(details, req.Name)
	}
	return fmt.Sprintf("Python %s layer with: %s", runtime, strings.Join(details, ", "))
}
