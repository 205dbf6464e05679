// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Id identifies a known failure class in the catalog.
type Id int

const (
	RecipeNotFoundId Id = iota + 1
	RecipeParseErrorId
	UnsupportedArchiveId
	ToolNotInstalledId
	NoBuildSystemId
	PatchFailedId
	BuildStepFailedId
	HookFailedId
	PackageNotFoundId
	ConfigLoadFailedId
	ShellNotFoundId
)

// Issue is a documented failure class with a rendered explanation shown when
// the corresponding error reaches the CLI layer.
type Issue struct {
	id    Id
	mdMsg string
}

func (i *Issue) Id() Id {
	return i.id
}

// Render formats the issue's markdown for the terminal.
func (i *Issue) Render(stylePath string) (string, error) {
	return render(i.mdMsg, stylePath)
}

var (
	render = glamour.Render

	recipeNotFoundIssue = &Issue{
		id: RecipeNotFoundId,
		mdMsg: `
# Recipe not found!

No recipe file exists at the given path, and no matching recipe was found in
the recipe repository directory.

## Things you can try:
- Pass the path to a recipe file directly:
~~~
$ pkgsmith build ./hello.cue
~~~
- Check the recipe repository directory in your config (recipe_dir)
- List the repository directory to verify the recipe name`,
	}

	recipeParseErrorIssue = &Issue{
		id: RecipeParseErrorId,
		mdMsg: `
# Failed to parse recipe!

The recipe file contains syntax errors or does not satisfy the recipe schema.

## Common issues:
- Invalid CUE syntax (missing quotes, braces)
- Both source_url and git_url set (exactly one is required)
- Missing required fields (name, version)

## Minimal recipe:
~~~cue
name:       "hello"
version:    "2.12"
source_url: "https://ftp.gnu.org/gnu/hello/hello-2.12.tar.gz"
~~~`,
	}

	unsupportedArchiveIssue = &Issue{
		id: UnsupportedArchiveId,
		mdMsg: `
# Unsupported archive format!

The fetched source archive has a suffix we do not recognize, and its content
is not a plain tar stream.

## Supported formats:
.tar.gz / .tgz, .tar.xz, .tar.bz2 / .tbz2, .tar.zst, .zip, and bare
.gz / .xz / .bz2 single files.

## Things you can try:
- Point source_url at an archive in a supported format
- Repackage the upstream source before building`,
	}

	toolNotInstalledIssue = &Issue{
		id: ToolNotInstalledId,
		mdMsg: `
# Required tool not installed!

A build or acquisition step needs an external tool that is not on your PATH.

## Tools pkgsmith may invoke:
git, patch, make, cmake, meson

## Things you can try:
- Install the named tool with your system package manager
- Check that the tool's directory is on PATH`,
	}

	noBuildSystemIssue = &Issue{
		id: NoBuildSystemId,
		mdMsg: `
# No build system detected!

The source root has no configure script, CMakeLists.txt, or meson.build, and
the recipe supplies no explicit build_steps.

## Things you can try:
- Add explicit build steps to the recipe:
~~~cue
build_steps: [
	"./autogen.sh",
	"./configure --prefix=/usr",
	"make",
	"make DESTDIR=$PKGSMITH_STAGING_ROOT install",
]
~~~
- Verify the archive extracted to the directory you expect`,
	}

	patchFailedIssue = &Issue{
		id: PatchFailedId,
		mdMsg: `
# Patch failed to apply!

A patch in the recipe's patch_sources list did not apply cleanly. Patches
already applied stay applied; the build was aborted.

## Things you can try:
- Check the patch was made against this source version
- Adjust patch_level in the recipe (default is 1)
- Discard the working directory before retrying`,
	}

	buildStepFailedIssue = &Issue{
		id: BuildStepFailedId,
		mdMsg: `
# Build step failed!

A build command exited with a non-zero status. The exit status and output are
logged above.

## Things you can try:
- Re-run with --verbose for the full command output
- Reproduce the step manually inside the source root
- Check that all build dependencies are installed`,
	}

	hookFailedIssue = &Issue{
		id: HookFailedId,
		mdMsg: `
# Recipe hook failed!

One of the recipe's hook scripts (pre_fetch, post_extract, pre_build,
post_build) exited with a non-zero status, aborting the build.

## Things you can try:
- Re-run with --verbose to see the hook's output
- Run the hook script manually with PKGSMITH_SOURCE_ROOT set`,
	}

	packageNotFoundIssue = &Issue{
		id: PackageNotFoundId,
		mdMsg: `
# Package file not found!

The package archive to install does not exist, or its suffix maps to no known
compression codec.

## Things you can try:
- Check the path and the output directory of the last build
- Package files are named {name}-{version}-{arch}.tar.{zst|gz}`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The config.cue file could not be read or does not satisfy the config schema.

## Things you can try:
- Validate the file against 'pkgsmith config show'
- Remove the file to fall back to built-in defaults`,
	}

	shellNotFoundIssue = &Issue{
		id: ShellNotFoundId,
		mdMsg: `
# Shell not found!

No shell is available for the native runner.

## Things you can try:
- Install bash or another POSIX shell
- Set the SHELL environment variable
- Switch to the built-in shell:
~~~cue
runner: "virtual"
~~~`,
	}

	issues = map[Id]*Issue{
		recipeNotFoundIssue.Id():     recipeNotFoundIssue,
		recipeParseErrorIssue.Id():   recipeParseErrorIssue,
		unsupportedArchiveIssue.Id(): unsupportedArchiveIssue,
		toolNotInstalledIssue.Id():   toolNotInstalledIssue,
		noBuildSystemIssue.Id():      noBuildSystemIssue,
		patchFailedIssue.Id():        patchFailedIssue,
		buildStepFailedIssue.Id():    buildStepFailedIssue,
		hookFailedIssue.Id():         hookFailedIssue,
		packageNotFoundIssue.Id():    packageNotFoundIssue,
		configLoadFailedIssue.Id():   configLoadFailedIssue,
		shellNotFoundIssue.Id():      shellNotFoundIssue,
	}
)

// Values returns every cataloged issue, sorted by id.
func Values() []*Issue {
	out := maps.Values(issues)
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

// Get looks up an issue by id, returning nil for unknown ids.
func Get(id Id) *Issue {
	return issues[id]
}
