// SPDX-License-Identifier: MPL-2.0

package extract

import (
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

type codecKind int

const (
	codecNone codecKind = iota
	codecGzip
	codecXz
	codecBzip2
	codecZstd
)

// decode wraps r in the decompressor for the codec. The returned closer is
// non-nil only for codecs that hold resources.
func decode(c codecKind, r io.Reader) (io.Reader, func(), error) {
	switch c {
	case codecNone:
		return r, nil, nil
	case codecGzip:
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		return gz, func() { gz.Close() }, nil
	case codecXz:
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open xz stream: %w", err)
		}
		return xr, nil, nil
	case codecBzip2:
		return bzip2.NewReader(r), nil, nil
	case codecZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open zstd stream: %w", err)
		}
		return zr, func() { zr.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown codec %d", c)
	}
}

// decompressFile handles bare .gz/.xz/.bz2 sources: one compressed file, no
// tar inside. The output keeps the name minus the codec suffix.
func decompressFile(archivePath, destDir string, c codecKind) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", archivePath, err)
	}
	defer f.Close()

	r, closer, err := decode(c, f)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer()
	}

	base := filepath.Base(archivePath)
	for _, suffix := range []string{".gz", ".xz", ".bz2"} {
		if strings.HasSuffix(strings.ToLower(base), suffix) {
			base = base[:len(base)-len(suffix)]
			break
		}
	}

	outPath := filepath.Join(destDir, base)
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outPath, err)
	}

	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return fmt.Errorf("failed to decompress %s: %w", archivePath, err)
	}
	return out.Close()
}
