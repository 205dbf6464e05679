// SPDX-License-Identifier: MPL-2.0

package pkgar

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pkgsmith/internal/config"
)

func TestFileName(t *testing.T) {
	t.Parallel()

	got := FileName("hello", "2.12", "amd64", config.CodecZstd)
	if got != "hello-2.12-amd64.tar.zst" {
		t.Errorf("FileName() = %q", got)
	}
	got = FileName("hello", "2.12", "arm64", config.CodecGzip)
	if got != "hello-2.12-arm64.tar.gz" {
		t.Errorf("FileName() = %q", got)
	}
}

func TestCodecForPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path    string
		want    config.Codec
		wantErr bool
	}{
		{path: "hello-2.12-amd64.tar.zst", want: config.CodecZstd},
		{path: "/out/hello-2.12-amd64.tar.gz", want: config.CodecGzip},
		{path: "hello-2.12-amd64.TAR.ZST", want: config.CodecZstd},
		{path: "hello-2.12-amd64.tar.xz", wantErr: true},
		{path: "hello-2.12-amd64.zip", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			got, err := CodecForPath(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("CodecForPath(%q) = %q, want error", tt.path, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("CodecForPath(%q) returned unexpected error: %v", tt.path, err)
			}
			if got != tt.want {
				t.Errorf("CodecForPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

// stageTree builds a small staged install tree: usr/bin/hello (executable),
// usr/share/doc/hello/README, and a relative symlink.
func stageTree(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	bin := filepath.Join(root, "usr", "bin")
	doc := filepath.Join(root, "usr", "share", "doc", "hello")
	for _, dir := range []string{bin, doc} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(bin, "hello"), []byte("#!/bin/sh\necho hello\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(doc, "README"), []byte("docs\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink("hello", filepath.Join(bin, "hi")); err != nil {
		t.Fatal(err)
	}
	return root
}

func TestBuildInstallRoundTrip(t *testing.T) {
	t.Parallel()

	for _, codec := range []config.Codec{config.CodecZstd, config.CodecGzip} {
		t.Run(string(codec), func(t *testing.T) {
			t.Parallel()

			staging := stageTree(t)
			outputDir := t.TempDir()

			pkg, err := Build(staging, "hello", "2.12", outputDir, codec)
			if err != nil {
				t.Fatalf("Build() returned unexpected error: %v", err)
			}

			wantName := FileName("hello", "2.12", HostArchitecture(), codec)
			if filepath.Base(pkg.ArchivePath) != wantName {
				t.Errorf("archive name = %q, want %q", filepath.Base(pkg.ArchivePath), wantName)
			}
			if pkg.Codec != codec {
				t.Errorf("Package.Codec = %q, want %q", pkg.Codec, codec)
			}

			meta, err := ReadMetadata(pkg.ArchivePath)
			if err != nil {
				t.Fatalf("ReadMetadata() returned unexpected error: %v", err)
			}
			if meta.Name != "hello" || meta.Version != "2.12" {
				t.Errorf("metadata = %+v", meta)
			}
			if _, err := time.Parse(time.RFC3339, meta.BuiltAt); err != nil {
				t.Errorf("BuiltAt %q is not RFC 3339: %v", meta.BuiltAt, err)
			}

			rootDir := t.TempDir()
			if err := Install(pkg.ArchivePath, rootDir); err != nil {
				t.Fatalf("Install() returned unexpected error: %v", err)
			}

			// The installed tree matches the staged tree exactly.
			data, err := os.ReadFile(filepath.Join(rootDir, "usr", "bin", "hello"))
			if err != nil {
				t.Fatalf("installed file missing: %v", err)
			}
			if string(data) != "#!/bin/sh\necho hello\n" {
				t.Errorf("installed content = %q", data)
			}
			info, err := os.Stat(filepath.Join(rootDir, "usr", "bin", "hello"))
			if err != nil {
				t.Fatal(err)
			}
			if info.Mode().Perm()&0o100 == 0 {
				t.Errorf("executable bit lost: %v", info.Mode())
			}
			link, err := os.Readlink(filepath.Join(rootDir, "usr", "bin", "hi"))
			if err != nil {
				t.Fatalf("symlink not installed: %v", err)
			}
			if link != "hello" {
				t.Errorf("symlink target = %q, want %q", link, "hello")
			}
			if _, err := os.ReadFile(filepath.Join(rootDir, "usr", "share", "doc", "hello", "README")); err != nil {
				t.Errorf("doc file missing: %v", err)
			}

			// The metadata record stays inside the archive.
			if _, err := os.Stat(filepath.Join(rootDir, MetadataDir)); !os.IsNotExist(err) {
				t.Errorf("metadata directory materialized in the install root: %v", err)
			}
		})
	}
}

func TestBuild_EmptyStagingRoot(t *testing.T) {
	t.Parallel()

	pkg, err := Build(t.TempDir(), "empty", "1.0", t.TempDir(), config.CodecZstd)
	if err != nil {
		t.Fatalf("Build() returned unexpected error: %v", err)
	}

	// The archive still carries its metadata record.
	meta, err := ReadMetadata(pkg.ArchivePath)
	if err != nil {
		t.Fatalf("ReadMetadata() returned unexpected error: %v", err)
	}
	if meta.Name != "empty" {
		t.Errorf("metadata name = %q", meta.Name)
	}
}

func TestBuild_InvalidCodec(t *testing.T) {
	t.Parallel()

	if _, err := Build(t.TempDir(), "x", "1", t.TempDir(), "lz4"); err == nil {
		t.Fatal("Build() accepted an unknown codec")
	}
}

func TestInstall_MissingPackage(t *testing.T) {
	t.Parallel()

	err := Install(filepath.Join(t.TempDir(), "nope-1.0-amd64.tar.zst"), t.TempDir())
	if err == nil {
		t.Fatal("Install() = nil error for a missing package file")
	}
}

func TestInstall_UnknownSuffix(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "pkg.tar.xz")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Install(path, t.TempDir()); err == nil {
		t.Fatal("Install() accepted a package with an unknown suffix")
	}
}

func TestLatest(t *testing.T) {
	t.Parallel()

	outputDir := t.TempDir()
	older := filepath.Join(outputDir, "hello-2.12-amd64.tar.gz")
	newer := filepath.Join(outputDir, "hello-2.12-arm64.tar.zst")
	stray := filepath.Join(outputDir, "hello-2.12-amd64.tar.xz")
	other := filepath.Join(outputDir, "zlib-1.3-amd64.tar.zst")
	for _, p := range []string{older, newer, stray, other} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	base := time.Now().Add(-time.Hour)
	if err := os.Chtimes(older, base, base); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(newer, base.Add(time.Minute), base.Add(time.Minute)); err != nil {
		t.Fatal(err)
	}

	got, err := Latest(outputDir, "hello", "2.12")
	if err != nil {
		t.Fatalf("Latest() returned unexpected error: %v", err)
	}
	if got != newer {
		t.Errorf("Latest() = %q, want the most recent archive %q", got, newer)
	}
}

func TestLatest_NoMatch(t *testing.T) {
	t.Parallel()

	_, err := Latest(t.TempDir(), "hello", "2.12")
	if !errors.Is(err, ErrNoPackageFound) {
		t.Errorf("Latest() = %v, want ErrNoPackageFound", err)
	}
}
