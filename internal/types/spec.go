package types

// PackageRequirement is one parsed package specifier. When Op is
// ConstraintOpNone the requirement is a bare name and Version is empty.
type PackageRequirement struct {
	Name    string
	Op      ConstraintOp
	Version string
}

// String formats the requirement back into pip's specifier syntax.
func (r PackageRequirement) String() string {
	if r.Op == ConstraintOpNone {
		return r.Name
	}
	return r.Name + string(r.Op) + r.Version
}

// LayerSpec is the read-only input to a single layer build.
type LayerSpec struct {
	Requirements []PackageRequirement
	Runtime      Runtime
	LayerName    string
	Description  string
}

// StagingArtifact describes the packaged layer produced from a staging
// directory. The staging directory itself is gone by the time the
// artifact is handed to the publisher; only the archive remains.
type StagingArtifact struct {
	ArchivePath   string
	SizeBytes     int64
	UnzippedBytes int64
}

// LayerFile is the on-disk YAML layer definition, an alternative to the
// command-line specifier string.
type LayerFile struct {
	Packages    []string `yaml:"packages"`
	Runtime     string   `yaml:"runtime"`
	Description string   `yaml:"description"`
}

// Layer size ceilings imposed by the platform. Archives above
// MaxZippedBytes cannot be uploaded inline and need the object-storage
// path; MaxUnzippedBytes is a hard limit either way.
const (
	MaxZippedBytes   int64 = 50 * 1024 * 1024
	MaxUnzippedBytes int64 = 250 * 1024 * 1024
)
