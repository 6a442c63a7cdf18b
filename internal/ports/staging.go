package ports

// Staging is an exclusively-owned temporary directory holding the layer
// layout while it is assembled. Release must be safe to call on every
// exit path, including after a failed acquire step, and must remove the
// directory exactly once.
type Staging interface {
	// Root is the directory the archive is rooted at.
	Root() string
	// PackageDir is the python/ subdirectory packages install into.
	PackageDir() string
	// Prune removes build artifacts not needed at runtime and reports
	// how many entries were removed.
	Prune() (int, error)
	// Release deletes the staging directory.
	Release() error
}

// StagingPort acquires staging directories.
type StagingPort interface {
	Acquire() (Staging, error)
}
