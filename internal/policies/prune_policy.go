package policies

import (
	"path/filepath"
	"strings"
)

// PrunePolicy decides which staged files and directories can be removed
// before packaging. The rule is "remove anything not needed to import
// and run the package": bytecode caches, installer metadata, and bundled
// test or example trees go; package source files never do.
type PrunePolicy struct {
	filePatterns []string
	dirNames     map[string]struct{}
	dirSuffixes  []string
}

func NewPrunePolicy() PrunePolicy {
	return PrunePolicy{
		filePatterns: []string{"*.pyc", "*.pyo", "*.pyd"},
		dirNames: map[string]struct{}{
			"__pycache__": {},
			"tests":       {},
			"test":        {},
			"testing":     {},
			"examples":    {},
			"example":     {},
			"benchmarks":  {},
			"benchmark":   {},
		},
		dirSuffixes: []string{".dist-info", ".egg-info"},
	}
}

// RemovableFile reports whether a staged file with the given base name
// is a prunable build artifact.
func (p PrunePolicy) RemovableFile(name string) bool {
	for _, pattern := range p.filePatterns {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}

// RemovableDir reports whether a staged directory with the given base
// name can be removed wholesale.
func (p PrunePolicy) RemovableDir(name string) bool {
	if _, ok := p.dirNames[strings.ToLower(name)]; ok {
		return true
	}
	for _, suffix := range p.dirSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}
