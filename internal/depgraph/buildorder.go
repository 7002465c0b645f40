// SPDX-License-Identifier: MPL-2.0

package depgraph

import "github.com/Night1099/toolkit-remix-mcp/internal/catalog"

// BuildOrder computes a topological build order over every extension in the
// snapshot using Kahn's algorithm: an extension appears after all of its
// known dependencies. Dangling dependencies are ignored here (they cannot be
// built anyway) and ties are broken lexicographically so the order is
// deterministic. Returns CycleError if the declared dependencies are cyclic.
func BuildOrder(snap *catalog.Snapshot) ([]string, error) {
	names := snap.Names()
	if len(names) == 0 {
		return nil, nil
	}

	// dependents[d] lists the extensions that declare d as a dependency;
	// inDegree counts each extension's unbuilt known dependencies.
	dependents := make(map[string][]string, len(names))
	inDegree := make(map[string]int, len(names))
	for _, name := range names {
		inDegree[name] = 0
	}
	for _, name := range names {
		for _, dep := range snap.Get(name).Dependencies {
			if !snap.Has(dep) || dep == name {
				continue
			}
			dependents[dep] = append(dependents[dep], name)
			inDegree[name]++
		}
	}

	// names is sorted, so the seed queue and every append sequence are
	// deterministic across runs.
	var ready []string
	for _, name := range names {
		if inDegree[name] == 0 {
			ready = append(ready, name)
		}
	}

	order := make([]string, 0, len(names))
	for len(ready) > 0 {
		name := ready[0]
		ready = ready[1:]
		order = append(order, name)

		for _, dependent := range dependents[name] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				ready = append(ready, dependent)
			}
		}
	}

	if len(order) != len(names) {
		var blocked []string
		for _, name := range names {
			if inDegree[name] > 0 {
				blocked = append(blocked, name)
			}
		}
		return nil, &CycleError{Cycle: blocked}
	}
	return order, nil
}
