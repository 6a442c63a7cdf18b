package adapters

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"layerforge/internal/policies"
	"layerforge/internal/ports"
)

// layerPackageDir is the subdirectory the runtime adds to the import
// path, so packages installed there resolve at function runtime.
const layerPackageDir = "python"

type StagingAdapter struct {
	Policy policies.PrunePolicy
}

func NewStagingAdapter() StagingAdapter {
	return StagingAdapter{Policy: policies.NewPrunePolicy()}
}

func (a StagingAdapter) Acquire() (ports.Staging, error) {
	root, err := os.MkdirTemp("", "layerforge-")
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create staging directory").
			WithCause(err)
	}
	packageDir := filepath.Join(root, layerPackageDir)
	if err := os.MkdirAll(packageDir, 0o750); err != nil {
		_ = os.RemoveAll(root)
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create layer package directory").
			WithCause(err)
	}
	return &stagingDir{root: root, packageDir: packageDir, policy: a.Policy}, nil
}

type stagingDir struct {
	root       string
	packageDir string
	policy     policies.PrunePolicy
	release    sync.Once
	releaseErr error
}

func (s *stagingDir) Root() string {
	return s.root
}

func (s *stagingDir) PackageDir() string {
	return s.packageDir
}

// Prune walks the staged tree and removes everything the policy marks
// removable. Directories are dropped wholesale and not descended into.
func (s *stagingDir) Prune() (int, error) {
	removed := 0
	err := filepath.WalkDir(s.root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			// Entries removed earlier in the walk are expected to be gone.
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if path == s.root {
			return nil
		}
		if entry.IsDir() {
			if s.policy.RemovableDir(entry.Name()) {
				if err := os.RemoveAll(path); err != nil {
					return err
				}
				removed++
				return filepath.SkipDir
			}
			return nil
		}
		if s.policy.RemovableFile(entry.Name()) {
			if err := os.Remove(path); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	if err != nil {
		return removed, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to prune staging directory").
			WithCause(err)
	}
	return removed, nil
}

// Release deletes the staging directory. Safe to call more than once;
// only the first call does the removal.
func (s *stagingDir) Release() error {
	s.release.Do(func() {
		if err := os.RemoveAll(s.root); err != nil {
			s.releaseErr = errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to remove staging directory").
				WithCause(err)
		}
	})
	return s.releaseErr
}

var _ ports.StagingPort = StagingAdapter{}
