// SPDX-License-Identifier: MPL-2.0

package pkgar

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"pkgsmith/internal/config"

	"github.com/klauspost/compress/zstd"
	"github.com/pelletier/go-toml/v2"
)

// Build archives the entire staging root into a compressed package in
// outputDir and returns the Package record. The metadata entry is written
// first so consumers can read it without scanning the whole archive.
func Build(stagingRoot, name, version, outputDir string, codec config.Codec) (*Package, error) {
	if err := codec.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	builtAt := time.Now().UTC()
	arch := HostArchitecture()
	outPath := filepath.Join(outputDir, FileName(name, version, arch, codec))

	out, err := os.Create(outPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", outPath, err)
	}

	cw, err := compressor(codec, out)
	if err != nil {
		out.Close()
		return nil, err
	}

	tw := tar.NewWriter(cw)

	meta := Metadata{
		Name:    name,
		Version: version,
		BuiltAt: builtAt.Format(time.RFC3339),
	}
	if err := writeMetadata(tw, meta); err != nil {
		closeAll(tw, cw, out)
		return nil, err
	}

	if err := archiveTree(tw, stagingRoot); err != nil {
		closeAll(tw, cw, out)
		return nil, err
	}

	if err := tw.Close(); err != nil {
		cw.Close()
		out.Close()
		return nil, fmt.Errorf("failed to finish archive: %w", err)
	}
	if err := cw.Close(); err != nil {
		out.Close()
		return nil, fmt.Errorf("failed to finish compression: %w", err)
	}
	if err := out.Close(); err != nil {
		return nil, fmt.Errorf("failed to close %s: %w", outPath, err)
	}

	return &Package{
		Name:         name,
		Version:      version,
		Architecture: arch,
		BuiltAt:      builtAt,
		ArchivePath:  outPath,
		Codec:        codec,
	}, nil
}

func compressor(codec config.Codec, w io.Writer) (io.WriteCloser, error) {
	switch codec {
	case config.CodecZstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd writer: %w", err)
		}
		return zw, nil
	case config.CodecGzip:
		return gzip.NewWriter(w), nil
	default:
		return nil, &config.InvalidCodecError{Value: codec}
	}
}

func writeMetadata(tw *tar.Writer, meta Metadata) error {
	data, err := toml.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	entry := MetadataDir + "/" + MetadataName
	hdr := &tar.Header{
		Name:    entry,
		Mode:    0o644,
		Size:    int64(len(data)),
		ModTime: time.Now().UTC(),
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("failed to write metadata header: %w", err)
	}
	if _, err := tw.Write(data); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}
	return nil
}

// archiveTree writes every entry under root into the tar with paths relative
// to root, preserving modes and symlinks.
func archiveTree(tw *tar.Writer, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		link := ""
		if info.Mode()&os.ModeSymlink != 0 {
			link, err = os.Readlink(path)
			if err != nil {
				return fmt.Errorf("failed to read symlink %s: %w", path, err)
			}
		}

		hdr, err := tar.FileInfoHeader(info, link)
		if err != nil {
			return fmt.Errorf("failed to build header for %s: %w", path, err)
		}
		hdr.Name = rel
		if info.IsDir() {
			hdr.Name += "/"
		}

		if err := tw.WriteHeader(hdr); err != nil {
			return fmt.Errorf("failed to write header for %s: %w", rel, err)
		}

		if info.Mode().IsRegular() {
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", path, err)
			}
			_, err = io.Copy(tw, f)
			f.Close()
			if err != nil {
				return fmt.Errorf("failed to archive %s: %w", path, err)
			}
		}
		return nil
	})
}

func closeAll(tw *tar.Writer, cw io.WriteCloser, out *os.File) {
	tw.Close()
	cw.Close()
	out.Close()
}
