// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"os/exec"
	"testing"
)

func TestValues_SortedAndComplete(t *testing.T) {
	t.Parallel()

	values := Values()
	if len(values) != len(issues) {
		t.Fatalf("Values() returned %d issues, catalog holds %d", len(values), len(issues))
	}
	for i := 1; i < len(values); i++ {
		if values[i-1].Id() >= values[i].Id() {
			t.Fatalf("Values() not sorted: id %d before id %d", values[i-1].Id(), values[i].Id())
		}
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	if got := Get(ToolNotInstalledId); got == nil || got.Id() != ToolNotInstalledId {
		t.Errorf("Get(ToolNotInstalledId) = %+v", got)
	}
	if got := Get(Id(9999)); got != nil {
		t.Errorf("Get(unknown) = %+v, want nil", got)
	}
}

func TestRequireTool(t *testing.T) {
	t.Parallel()

	// Any tool the test binary itself needs is guaranteed present.
	if _, err := exec.LookPath("go"); err == nil {
		if err := RequireTool("go"); err != nil {
			t.Errorf("RequireTool(go) returned unexpected error: %v", err)
		}
	}

	err := RequireTool("definitely-not-a-real-tool-pkgsmith")
	if err == nil {
		t.Fatal("RequireTool() = nil for a tool that cannot exist")
	}
	if !errors.Is(err, ErrToolNotInstalled) {
		t.Errorf("error should wrap ErrToolNotInstalled, got: %v", err)
	}
	var toolErr *ToolNotInstalledError
	if !errors.As(err, &toolErr) {
		t.Fatalf("error should be a *ToolNotInstalledError, got: %T", err)
	}
	if toolErr.Tool != "definitely-not-a-real-tool-pkgsmith" {
		t.Errorf("ToolNotInstalledError.Tool = %q", toolErr.Tool)
	}
}
