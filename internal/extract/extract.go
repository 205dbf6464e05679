// SPDX-License-Identifier: MPL-2.0

// Package extract unpacks fetched source archives and normalizes the result
// to a single source root. Formats are selected by filename suffix, with a
// magic-byte sniff as fallback that accepts only a plain tar stream. All
// codecs run in-process; no external unpacking tools are invoked.
package extract

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is the sentinel wrapped by UnsupportedFormatError.
var ErrUnsupportedFormat = errors.New("unsupported archive format")

// UnsupportedFormatError names the archive and what its content sniffed as.
type UnsupportedFormatError struct {
	Archive  string
	Detected string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported archive format for %s (detected %s)", e.Archive, e.Detected)
}

func (e *UnsupportedFormatError) Unwrap() error {
	return ErrUnsupportedFormat
}

// kind is the closed set of archive layouts we know how to unpack.
type kind int

const (
	kindUnknown kind = iota
	kindTar          // tar stream, optionally behind a compression codec
	kindZip
	kindBareFile // single compressed file, no tar inside
)

// Extract unpacks archivePath into destDir and returns the normalized source
// root: the single top-level directory when the archive is well-behaved, or
// destDir itself for tarbomb-shaped archives.
func Extract(archivePath, destDir string) (string, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", destDir, err)
	}

	k, codec := classify(archivePath)
	if k == kindUnknown {
		sniffed, err := sniffTar(archivePath)
		if err != nil {
			return "", err
		}
		if !sniffed.isTar {
			return "", &UnsupportedFormatError{Archive: archivePath, Detected: sniffed.contentType}
		}
		k, codec = kindTar, codecNone
	}

	var err error
	switch k {
	case kindTar:
		err = untar(archivePath, destDir, codec)
	case kindZip:
		err = unzip(archivePath, destDir)
	case kindBareFile:
		err = decompressFile(archivePath, destDir, codec)
	}
	if err != nil {
		return "", err
	}

	return NormalizeRoot(destDir)
}

// classify maps a filename suffix to an archive kind and codec.
func classify(name string) (kind, codecKind) {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return kindTar, codecGzip
	case strings.HasSuffix(lower, ".tar.xz"):
		return kindTar, codecXz
	case strings.HasSuffix(lower, ".tar.bz2"), strings.HasSuffix(lower, ".tbz2"):
		return kindTar, codecBzip2
	case strings.HasSuffix(lower, ".tar.zst"):
		return kindTar, codecZstd
	case strings.HasSuffix(lower, ".tar"):
		return kindTar, codecNone
	case strings.HasSuffix(lower, ".zip"):
		return kindZip, codecNone
	case strings.HasSuffix(lower, ".gz"):
		return kindBareFile, codecGzip
	case strings.HasSuffix(lower, ".xz"):
		return kindBareFile, codecXz
	case strings.HasSuffix(lower, ".bz2"):
		return kindBareFile, codecBzip2
	default:
		return kindUnknown, codecNone
	}
}

type sniffResult struct {
	isTar       bool
	contentType string
}

// sniffTar reads the archive head and accepts only a plain tar stream: the
// "ustar" magic at offset 257.
func sniffTar(path string) (sniffResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return sniffResult{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	head := make([]byte, 512)
	n, _ := f.Read(head)
	head = head[:n]

	if n > 262 && string(head[257:262]) == "ustar" {
		return sniffResult{isTar: true}, nil
	}
	return sniffResult{contentType: http.DetectContentType(head)}, nil
}

// NormalizeRoot applies the single-root rule: when destDir contains exactly
// one top-level directory and no top-level files, that directory is the
// source root; otherwise destDir itself is.
func NormalizeRoot(destDir string) (string, error) {
	entries, err := os.ReadDir(destDir)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", destDir, err)
	}

	if len(entries) == 1 && entries[0].IsDir() {
		return filepath.Join(destDir, entries[0].Name()), nil
	}
	return destDir, nil
}
