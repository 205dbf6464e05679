// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"pkgsmith/internal/config"
)

func TestNew(t *testing.T) {
	t.Parallel()

	if got := New(config.RunnerNative).Name(); got != "native" {
		t.Errorf("New(native).Name() = %q", got)
	}
	if got := New(config.RunnerVirtual).Name(); got != "virtual" {
		t.Errorf("New(virtual).Name() = %q", got)
	}
}

func TestResult_Failed(t *testing.T) {
	t.Parallel()

	if (&Result{}).Failed() {
		t.Error("zero Result should not report failure")
	}
	if !(&Result{ExitCode: 2}).Failed() {
		t.Error("non-zero exit code should report failure")
	}
	if !(&Result{Err: context.Canceled}).Failed() {
		t.Error("a run error should report failure")
	}
}

// runners returns both implementations so the behavioral tests cover them
// uniformly. The native runner is skipped when no shell is present.
func runners(t *testing.T) []Runner {
	t.Helper()

	out := []Runner{NewVirtualRunner()}
	native := NewNativeRunner()
	if native.Available() {
		out = append(out, native)
	} else {
		t.Log("no shell found, skipping native runner cases")
	}
	return out
}

func TestRun_Stdout(t *testing.T) {
	t.Parallel()

	for _, r := range runners(t) {
		t.Run(r.Name(), func(t *testing.T) {
			t.Parallel()
			var stdout bytes.Buffer
			res := r.Run(context.Background(), Command{
				Script: "echo hello",
				Stdout: &stdout,
			})
			if res.Failed() {
				t.Fatalf("Run() failed: exit=%d err=%v", res.ExitCode, res.Err)
			}
			if got := strings.TrimSpace(stdout.String()); got != "hello" {
				t.Errorf("stdout = %q, want %q", got, "hello")
			}
		})
	}
}

func TestRun_ExitCode(t *testing.T) {
	t.Parallel()

	for _, r := range runners(t) {
		t.Run(r.Name(), func(t *testing.T) {
			t.Parallel()
			res := r.Run(context.Background(), Command{Script: "exit 3"})
			if res.Err != nil {
				t.Fatalf("Run() returned unexpected error: %v", res.Err)
			}
			if res.ExitCode != 3 {
				t.Errorf("ExitCode = %d, want 3", res.ExitCode)
			}
			if !res.Failed() {
				t.Error("Failed() = false for exit status 3")
			}
		})
	}
}

func TestRun_ExtraEnv(t *testing.T) {
	t.Parallel()

	for _, r := range runners(t) {
		t.Run(r.Name(), func(t *testing.T) {
			t.Parallel()
			var stdout bytes.Buffer
			res := r.Run(context.Background(), Command{
				Script: "echo $PKGSMITH_TEST_VALUE",
				Env:    []string{"PKGSMITH_TEST_VALUE=forty-two"},
				Stdout: &stdout,
			})
			if res.Failed() {
				t.Fatalf("Run() failed: exit=%d err=%v", res.ExitCode, res.Err)
			}
			if got := strings.TrimSpace(stdout.String()); got != "forty-two" {
				t.Errorf("stdout = %q, want the extra env value", got)
			}
		})
	}
}

func TestRun_WorkingDirectory(t *testing.T) {
	t.Parallel()

	for _, r := range runners(t) {
		t.Run(r.Name(), func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			var stdout bytes.Buffer
			res := r.Run(context.Background(), Command{
				Script: "pwd",
				Dir:    dir,
				Stdout: &stdout,
			})
			if res.Failed() {
				t.Fatalf("Run() failed: exit=%d err=%v", res.ExitCode, res.Err)
			}
			// Compare by suffix: macOS reports /private-prefixed temp paths.
			if got := strings.TrimSpace(stdout.String()); !strings.HasSuffix(got, dir) && !strings.HasSuffix(dir, got) {
				t.Errorf("pwd = %q, want %q", got, dir)
			}
		})
	}
}

func TestVirtualRunner_ParseError(t *testing.T) {
	t.Parallel()

	res := NewVirtualRunner().Run(context.Background(), Command{Script: "if then fi"})
	if res.Err == nil {
		t.Fatal("Run() accepted an unparseable script")
	}
}

func TestVirtualRunner_AlwaysAvailable(t *testing.T) {
	t.Parallel()

	if !NewVirtualRunner().Available() {
		t.Error("the embedded interpreter must always be available")
	}
}

func TestNativeRunner_ShellOverride(t *testing.T) {
	t.Parallel()

	r := &NativeRunner{Shell: "/definitely/not/a/shell"}
	res := r.Run(context.Background(), Command{Script: "true"})
	if !res.Failed() {
		t.Error("Run() should fail with a nonexistent shell override")
	}
}
