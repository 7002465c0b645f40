// SPDX-License-Identifier: MPL-2.0

package scaffold

import (
	"fmt"
	"strings"
	"time"

	"github.com/Night1099/toolkit-remix-mcp/internal/manifest"
)

// renderManifest produces the config/extension.toml content. The dependency
// table starts with the category's common package so a fresh extension builds
// against the shared utilities out of the box.
func renderManifest(opts Options) string {
	var b strings.Builder
	fmt.Fprintf(&b, `[package]
name = %q
version = "1.0.0"
description = %q
authors = ["RTX Remix Team"]
category = "extension"
keywords = ["rtx", "remix", "omniverse"]

[dependencies]
"omni.kit.usd" = {}
`, opts.Name, opts.Description)

	if opts.Category == manifest.CategoryLightspeed {
		b.WriteString(`"lightspeed.common" = {}` + "\n")
	} else {
		b.WriteString(`"omni.flux.utils.common" = {}` + "\n")
	}
	if opts.IncludeUI {
		b.WriteString(`"omni.ui" = {}` + "\n")
	}
	if opts.IncludeTests {
		b.WriteString(`
[[test]]
dependencies = [
    "omni.kit.test",
]
`)
	}
	return b.String()
}

func renderExtensionModule(opts Options) string {
	className := classNameFor(opts.Name)
	return fmt.Sprintf(`"""
%[1]s extension
"""

import omni.ext


class %[2]sExtension(omni.ext.IExt):
    """Extension entry point for %[1]s"""

    def on_startup(self, ext_id):
        print(f"[%[1]s] startup")

    def on_shutdown(self):
        print(f"[%[1]s] shutdown")
`, opts.Name, className)
}

func renderTestStub(opts Options) string {
	className := classNameFor(opts.Name)
	return fmt.Sprintf(`"""
Unit tests for %[1]s
"""

import unittest


class Test%[2]s(unittest.TestCase):
    """Test cases for %[1]s"""

    def test_extension_startup(self):
        pass


if __name__ == "__main__":
    unittest.main()
`, opts.Name, className)
}

func renderReadme(opts Options) string {
	return fmt.Sprintf(`# %[1]s

%[2]s

## Development

### Testing

`+"```bash"+`
./repo.sh test %[1]s
`+"```"+`

### Building

`+"```bash"+`
./build.sh -r
`+"```"+`
`, opts.Name, opts.Description)
}

func renderChangelog(opts Options) string {
	return fmt.Sprintf(`# Changelog

All notable changes to %s will be documented in this file.

## [1.0.0] - %s

### Added
- Initial extension creation
`, opts.Name, time.Now().Format("2006-01-02"))
}

func renderPremake(opts Options) string {
	return fmt.Sprintf(`-- %s premake5.lua

local ext = get_current_extension_info()

project_ext(ext)
`, opts.Name)
}

// classNameFor turns a dotted extension name into a Python class name:
// "lightspeed.my_feature" becomes "LightspeedMyFeature".
func classNameFor(name string) string {
	var b strings.Builder
	for _, segment := range strings.FieldsFunc(name, func(r rune) bool {
		return r == '.' || r == '_'
	}) {
		b.WriteString(strings.ToUpper(segment[:1]))
		b.WriteString(segment[1:])
	}
	return b.String()
}
