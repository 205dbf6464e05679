// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"os/exec"
)

// ErrToolNotInstalled is the sentinel wrapped by ToolNotInstalledError.
var ErrToolNotInstalled = errors.New("tool not installed")

// ToolNotInstalledError reports a required external tool missing from PATH.
type ToolNotInstalledError struct {
	Tool string
}

func (e *ToolNotInstalledError) Error() string {
	return fmt.Sprintf("%s is not installed", e.Tool)
}

func (e *ToolNotInstalledError) Unwrap() error {
	return ErrToolNotInstalled
}

// RequireTool fails with a ToolNotInstalledError when the named tool is not
// on PATH. Stage code calls this before shelling out so the user sees an
// explicit "not installed" error instead of a generic exec failure.
func RequireTool(tool string) error {
	if _, err := exec.LookPath(tool); err != nil {
		return &ToolNotInstalledError{Tool: tool}
	}
	return nil
}
