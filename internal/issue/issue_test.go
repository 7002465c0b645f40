// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
	"testing"

	"github.com/Night1099/toolkit-remix-mcp/internal/depgraph"
	"github.com/Night1099/toolkit-remix-mcp/internal/manifest"
	"github.com/Night1099/toolkit-remix-mcp/internal/scaffold"
	"github.com/Night1099/toolkit-remix-mcp/internal/search"
)

func TestFromErrorClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"unknown extension", &depgraph.UnknownExtensionError{Name: "x"}, KindUnknownExtension},
		{"missing manifest", &manifest.MissingError{Path: "/p"}, KindManifestMissing},
		{"malformed manifest", &manifest.MalformedError{Path: "/p"}, KindManifestMalformed},
		{"invalid pattern", &search.InvalidPatternError{Pattern: "["}, KindInvalidPattern},
		{"already exists", &scaffold.AlreadyExistsError{Name: "x"}, KindAlreadyExists},
		{"plain error", errors.New("boom"), KindInternal},
		{"wrapped sentinel", errors.Join(errors.New("ctx"), scaffold.ErrInvalidName), KindInvalidName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if f := FromError(tt.err); f.Kind != tt.want {
				t.Errorf("FromError(%v).Kind = %q, want %q", tt.err, f.Kind, tt.want)
			}
		})
	}
}

func TestFailureString(t *testing.T) {
	t.Parallel()

	f := FromError(&depgraph.UnknownExtensionError{Name: "lightspeed.nope"})
	s := f.String()

	if !strings.HasPrefix(s, string(KindUnknownExtension)+": ") {
		t.Errorf("String() = %q, want kind prefix", s)
	}
	if !strings.Contains(s, "lightspeed.nope") {
		t.Errorf("String() = %q, want the extension name", s)
	}
	if !strings.Contains(s, "list_extensions") {
		t.Errorf("String() = %q, want a suggestion", s)
	}
}
