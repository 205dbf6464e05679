// SPDX-License-Identifier: MPL-2.0

// Package fetch acquires sources: plain HTTP downloads and git repositories.
// All failures are fatal; nothing here retries.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"pkgsmith/internal/issue"
)

// httpClient is the shared download client. No timeout is set: a source
// download blocks the pipeline until the server or the user gives up.
var httpClient = &http.Client{}

// File downloads rawURL to destPath. When destPath is empty the filename is
// derived from the URL's last path segment with any query string stripped,
// and the file lands in destDir. An existing file at the target is
// overwritten; a failed download may leave a truncated file behind, which the
// caller must not reuse.
func File(ctx context.Context, rawURL, destDir, destPath string) (string, error) {
	if destPath == "" {
		name, err := FilenameFromURL(rawURL)
		if err != nil {
			return "", err
		}
		destPath = filepath.Join(destDir, name)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request for %s: %w", rawURL, err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", issue.NewErrorContext().
			WithOperation("fetch source").
			WithResource(rawURL).
			WithSuggestion("Check the URL and your network connection").
			Wrap(err).
			BuildError()
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", issue.NewErrorContext().
			WithOperation("fetch source").
			WithResource(rawURL).
			Wrap(fmt.Errorf("unexpected status %d", resp.StatusCode)).
			BuildError()
	}

	out, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", destPath, err)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		return "", fmt.Errorf("failed to write %s: %w", destPath, err)
	}

	if err := out.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", destPath, err)
	}

	return destPath, nil
}

// FilenameFromURL derives a filename from the URL's last path segment.
func FilenameFromURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid source URL %s: %w", rawURL, err)
	}

	name := path.Base(u.Path)
	if name == "" || name == "/" || name == "." {
		return "", fmt.Errorf("cannot derive a filename from %s", rawURL)
	}
	return name, nil
}

// IsURL reports whether s looks like a fetchable URL rather than a local path.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
