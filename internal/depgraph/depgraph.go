// SPDX-License-Identifier: MPL-2.0

// Package depgraph builds the directed graph of declared inter-extension
// dependencies from a catalog snapshot and answers traversal queries against
// it. The graph is rebuilt lazily on each call: the snapshot itself is not
// cached, so neither is the graph.
package depgraph

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Night1099/toolkit-remix-mcp/internal/catalog"
)

var (
	// ErrUnknownExtension is the sentinel error wrapped by UnknownExtensionError.
	ErrUnknownExtension = errors.New("unknown extension")
	// ErrDependencyCycle is the sentinel error wrapped by CycleError.
	ErrDependencyCycle = errors.New("dependency cycle")
)

type (
	// UnknownExtensionError is returned when the root of a dependency query
	// is absent from the catalog. Dangling dependencies of known extensions
	// are reported in Resolution.Missing instead, never as an error.
	UnknownExtensionError struct {
		Name string
	}

	// CycleError indicates that the declared dependencies of the known
	// extensions contain a cycle, preventing a build order.
	CycleError struct {
		// Cycle holds the extensions still blocked on each other: enough
		// to identify the problem, not necessarily the minimal cycle.
		Cycle []string
	}

	// Resolution is the answer to a dependency query for one extension.
	Resolution struct {
		// Name is the queried extension.
		Name string `json:"name"`
		// Direct are the dependency names declared by the extension itself,
		// sorted, including ones that do not resolve.
		Direct []string `json:"direct"`
		// Transitive are the names reachable through dependencies of
		// dependencies, sorted, excluding the root and its direct set.
		Transitive []string `json:"transitive"`
		// Missing are referenced names (at any depth) with no matching
		// descriptor in the catalog.
		Missing []string `json:"missing"`
		// Cycle reports whether traversal encountered a dependency cycle.
		// Traversal of the cyclic branch stops instead of looping.
		Cycle bool `json:"cycle"`
	}
)

// Error implements the error interface.
func (e *UnknownExtensionError) Error() string {
	return fmt.Sprintf("extension %q not found in the repository", e.Name)
}

// Unwrap returns ErrUnknownExtension so callers can use errors.Is.
func (e *UnknownExtensionError) Unwrap() error { return ErrUnknownExtension }

// Error implements the error interface.
func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(e.Cycle, " -> "))
}

// Unwrap returns ErrDependencyCycle so callers can use errors.Is.
func (e *CycleError) Unwrap() error { return ErrDependencyCycle }

// DependenciesOf resolves the dependency closure of name against the
// snapshot. Traversal is depth-first with a visited set, so it terminates on
// cyclic declarations; a detected cycle sets Resolution.Cycle and stops that
// branch. maxDepth bounds the traversal depth (direct dependencies are depth
// 1); zero or negative means unbounded.
func DependenciesOf(name string, snap *catalog.Snapshot, maxDepth int) (*Resolution, error) {
	root := snap.Get(name)
	if root == nil {
		return nil, &UnknownExtensionError{Name: name}
	}

	res := &Resolution{
		Name:   name,
		Direct: append([]string(nil), root.Dependencies...),
	}

	visited := map[string]bool{name: true}
	onPath := map[string]bool{name: true}
	missing := map[string]bool{}
	reachable := map[string]bool{}

	var walk func(dep string, depth int)
	walk = func(dep string, depth int) {
		if onPath[dep] {
			res.Cycle = true
			return
		}
		if visited[dep] {
			return
		}
		visited[dep] = true

		desc := snap.Get(dep)
		if desc == nil {
			missing[dep] = true
			return
		}
		reachable[dep] = true

		if maxDepth > 0 && depth >= maxDepth {
			return
		}
		onPath[dep] = true
		for _, next := range desc.Dependencies {
			walk(next, depth+1)
		}
		onPath[dep] = false
	}

	for _, dep := range root.Dependencies {
		// Self-dependency is a one-node cycle.
		if dep == name {
			res.Cycle = true
			continue
		}
		walk(dep, 1)
	}

	direct := map[string]bool{}
	for _, dep := range res.Direct {
		direct[dep] = true
	}
	for dep := range reachable {
		if !direct[dep] {
			res.Transitive = append(res.Transitive, dep)
		}
	}
	for dep := range missing {
		res.Missing = append(res.Missing, dep)
	}
	sort.Strings(res.Transitive)
	sort.Strings(res.Missing)
	return res, nil
}
