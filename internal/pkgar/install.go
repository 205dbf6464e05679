// SPDX-License-Identifier: MPL-2.0

package pkgar

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"pkgsmith/internal/config"
	"pkgsmith/internal/extract"
	"pkgsmith/internal/issue"

	"github.com/klauspost/compress/zstd"
	"github.com/pelletier/go-toml/v2"
)

// ErrNoPackageFound is returned when Latest finds no matching archive.
var ErrNoPackageFound = errors.New("no package file found")

// Install unpacks a package archive into rootDir. The codec is selected by
// the file suffix; the reserved metadata entries are skipped so the installed
// tree matches the staged tree exactly. A missing file or unknown suffix is
// fatal.
func Install(packagePath, rootDir string) error {
	if _, err := os.Stat(packagePath); err != nil {
		return issue.NewErrorContext().
			WithOperation("install package").
			WithResource(packagePath).
			WithSuggestion("Check the path; build output lands in the configured output_dir").
			Wrap(err).
			BuildError()
	}

	r, closer, err := openPackage(packagePath)
	if err != nil {
		return err
	}
	defer closer()

	if err := os.MkdirAll(rootDir, 0o755); err != nil {
		return fmt.Errorf("failed to create install root %s: %w", rootDir, err)
	}

	skip := func(name string) bool {
		return name == MetadataDir || strings.HasPrefix(name, MetadataDir+"/")
	}
	if err := extract.UntarStream(r, rootDir, skip); err != nil {
		return issue.NewErrorContext().
			WithOperation("install package").
			WithResource(packagePath).
			Wrap(err).
			BuildError()
	}
	return nil
}

// ReadMetadata returns the embedded metadata record of a package archive.
func ReadMetadata(packagePath string) (*Metadata, error) {
	r, closer, err := openPackage(packagePath)
	if err != nil {
		return nil, err
	}
	defer closer()

	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", packagePath, err)
		}
		if hdr.Name != MetadataDir+"/"+MetadataName {
			continue
		}

		data, err := io.ReadAll(tr)
		if err != nil {
			return nil, fmt.Errorf("failed to read metadata from %s: %w", packagePath, err)
		}
		var meta Metadata
		if err := toml.Unmarshal(data, &meta); err != nil {
			return nil, fmt.Errorf("failed to decode metadata from %s: %w", packagePath, err)
		}
		return &meta, nil
	}

	return nil, fmt.Errorf("%s carries no metadata record", packagePath)
}

// Latest returns the most recently modified package archive for the given
// name and version in outputDir.
func Latest(outputDir, name, version string) (string, error) {
	pattern := filepath.Join(outputDir, fmt.Sprintf("%s-%s-*.tar.*", name, version))
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return "", fmt.Errorf("failed to scan %s: %w", outputDir, err)
	}

	// Keep only suffixes that map to a known codec; the glob also matches
	// stray files like .tar.xz someone dropped into the output directory.
	kept := matches[:0]
	for _, m := range matches {
		if _, err := CodecForPath(m); err == nil {
			kept = append(kept, m)
		}
	}
	if len(kept) == 0 {
		return "", fmt.Errorf("%w for %s-%s in %s", ErrNoPackageFound, name, version, outputDir)
	}

	sort.Slice(kept, func(i, j int) bool {
		fi, errI := os.Stat(kept[i])
		fj, errJ := os.Stat(kept[j])
		if errI != nil || errJ != nil {
			return kept[i] < kept[j]
		}
		return fi.ModTime().After(fj.ModTime())
	})
	return kept[0], nil
}

func openPackage(packagePath string) (io.Reader, func(), error) {
	codec, err := CodecForPath(packagePath)
	if err != nil {
		return nil, nil, issue.NewErrorContext().
			WithOperation("open package").
			WithResource(packagePath).
			WithSuggestion("Package files are named {name}-{version}-{arch}.tar.{zst|gz}").
			Wrap(err).
			BuildError()
	}

	f, err := os.Open(packagePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", packagePath, err)
	}

	switch codec {
	case config.CodecZstd:
		zr, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, nil, fmt.Errorf("failed to open zstd stream in %s: %w", packagePath, err)
		}
		return zr, func() { zr.Close(); f.Close() }, nil
	default:
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, nil, fmt.Errorf("failed to open gzip stream in %s: %w", packagePath, err)
		}
		return gz, func() { gz.Close(); f.Close() }, nil
	}
}
