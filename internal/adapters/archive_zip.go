package adapters

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/klauspost/compress/zip"

	"layerforge/internal/ports"
)

type ZipArchiveAdapter struct{}

func NewZipArchiveAdapter() ZipArchiveAdapter {
	return ZipArchiveAdapter{}
}

// Compress packs every file under rootDir into a deflate zip archive at
// archivePath. Entry names are relative to rootDir with forward slashes,
// so the python/ prefix survives extraction on the runtime host.
func (a ZipArchiveAdapter) Compress(ctx context.Context, rootDir string, archivePath string) (int64, int64, error) {
	out, err := os.Create(archivePath)
	if err != nil {
		return 0, 0, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create archive file").
			WithCause(err)
	}
	defer out.Close()

	writer := zip.NewWriter(out)
	var unzipped int64
	walkErr := filepath.WalkDir(rootDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		written, err := addArchiveEntry(writer, rootDir, path, entry)
		if err != nil {
			return err
		}
		unzipped += written
		return nil
	})
	if walkErr != nil {
		_ = writer.Close()
		return 0, 0, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to pack layer archive").
			WithCause(walkErr)
	}
	if err := writer.Close(); err != nil {
		return 0, 0, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to finalize layer archive").
			WithCause(err)
	}
	info, err := out.Stat()
	if err != nil {
		return 0, 0, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to stat layer archive").
			WithCause(err)
	}
	return info.Size(), unzipped, nil
}

func addArchiveEntry(writer *zip.Writer, rootDir string, path string, entry fs.DirEntry) (int64, error) {
	rel, err := filepath.Rel(rootDir, path)
	if err != nil {
		return 0, err
	}
	info, err := entry.Info()
	if err != nil {
		return 0, err
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return 0, err
	}
	header.Name = filepath.ToSlash(rel)
	header.Method = zip.Deflate
	dst, err := writer.CreateHeader(header)
	if err != nil {
		return 0, err
	}
	src, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer src.Close()
	return io.Copy(dst, src)
}

var _ ports.ArchiverPort = ZipArchiveAdapter{}
