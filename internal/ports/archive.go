package ports

import "context"

// ArchiverPort compresses a staged directory tree into a zip-compatible
// archive with relative paths rooted at rootDir. Returns the archive
// size and the total uncompressed size of the packed files.
type ArchiverPort interface {
	Compress(ctx context.Context, rootDir string, archivePath string) (zipped int64, unzipped int64, err error)
}
