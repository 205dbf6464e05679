// SPDX-License-Identifier: MPL-2.0

// Package pkgar produces and consumes binary package archives: a compressed
// tar of the staged install tree with an embedded TOML metadata record at
// .pkgsmith/metadata.toml. Archives are named
// {name}-{version}-{arch}.tar.{zst|gz}.
package pkgar

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"pkgsmith/internal/config"
)

// MetadataDir is the reserved top-level directory inside a package archive
// holding the metadata record. The installer never materializes it.
const MetadataDir = ".pkgsmith"

// MetadataName is the metadata record's filename inside MetadataDir.
const MetadataName = "metadata.toml"

type (
	// Package describes one produced archive. Immutable once written.
	Package struct {
		Name         string
		Version      string
		Architecture string
		BuiltAt      time.Time
		ArchivePath  string
		Codec        config.Codec
	}

	// Metadata is the TOML record embedded in every package archive.
	Metadata struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
		// BuiltAt is the ISO-8601 UTC build timestamp.
		BuiltAt string `toml:"built_at"`
	}
)

// HostArchitecture returns the machine type recorded in package names.
func HostArchitecture() string {
	return runtime.GOARCH
}

// FileName returns the package archive filename for the given identity.
func FileName(name, version, arch string, codec config.Codec) string {
	return fmt.Sprintf("%s-%s-%s.tar.%s", name, version, arch, codec.Extension())
}

// CodecForPath maps a package file suffix back to its codec.
func CodecForPath(path string) (config.Codec, error) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".tar.zst"):
		return config.CodecZstd, nil
	case strings.HasSuffix(lower, ".tar.gz"):
		return config.CodecGzip, nil
	default:
		return "", fmt.Errorf("no known codec for package suffix of %s", filepath.Base(path))
	}
}
