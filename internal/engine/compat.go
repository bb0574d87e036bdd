// Package engine implements the option compatibility and pricing rules for
// vehicle configurations. Every function is a pure computation over the
// catalog snapshot the caller passes in; the engine holds no state and
// performs no I/O, so concurrent calls need no coordination.
package engine

import (
	"fmt"
	"sort"
	"strings"

	"carconfig/internal/catalog"
)

// CompatibilityResult is the outcome of a pairwise compatibility check.
type CompatibilityResult struct {
	Valid                bool
	ConflictingOptionIDs []string
	Message              string
}

// ConflictsOf returns the ids of every offered option the given option can
// never be combined with: all other members of its exclusive group, plus
// anything linked to it by an explicit conflict edge (in either direction).
// An option never conflicts with itself.
func ConflictsOf(optionID string, offered []catalog.Option, edges []catalog.ConflictEdge) map[string]bool {
	conflicts := make(map[string]bool)

	var group string
	for _, opt := range offered {
		if opt.ID == optionID {
			group = opt.ExclusiveGroup
			break
		}
	}

	if group != "" {
		for _, opt := range offered {
			if opt.ID != optionID && opt.ExclusiveGroup == group {
				conflicts[opt.ID] = true
			}
		}
	}

	for _, edge := range edges {
		switch optionID {
		case edge.FromOptionID:
			if edge.ToOptionID != optionID {
				conflicts[edge.ToOptionID] = true
			}
		case edge.ToOptionID:
			if edge.FromOptionID != optionID {
				conflicts[edge.FromOptionID] = true
			}
		}
	}

	return conflicts
}

// ValidateCompatibility checks every unordered pair of selected options and
// reports both members of each conflicting pair. Zero or one selection is
// trivially consistent.
func ValidateCompatibility(selectedIDs []string, offered []catalog.Option, edges []catalog.ConflictEdge) CompatibilityResult {
	ids := dedupe(selectedIDs)

	conflicting := make(map[string]bool)
	for i := 0; i < len(ids); i++ {
		conflicts := ConflictsOf(ids[i], offered, edges)
		for j := i + 1; j < len(ids); j++ {
			if conflicts[ids[j]] {
				conflicting[ids[i]] = true
				conflicting[ids[j]] = true
			}
		}
	}

	if len(conflicting) == 0 {
		return CompatibilityResult{Valid: true}
	}

	conflictIDs := sortedKeys(conflicting)
	return CompatibilityResult{
		Valid:                false,
		ConflictingOptionIDs: conflictIDs,
		Message:              fmt.Sprintf("mutually exclusive options selected: %s", strings.Join(conflictIDs, ", ")),
	}
}

// FilterCompatible returns the offered options still pickable alongside the
// current selection, preserving offer order. Options that are themselves
// selected are always included, so a pick is never hidden from itself.
// With an empty selection every offered option comes back unchanged.
func FilterCompatible(offered []catalog.Option, selectedIDs []string, edges []catalog.ConflictEdge) []catalog.Option {
	selected := make(map[string]bool, len(selectedIDs))
	blocked := make(map[string]bool)
	for _, id := range selectedIDs {
		selected[id] = true
		for conflictID := range ConflictsOf(id, offered, edges) {
			blocked[conflictID] = true
		}
	}

	compatible := make([]catalog.Option, 0, len(offered))
	for _, opt := range offered {
		if selected[opt.ID] || !blocked[opt.ID] {
			compatible = append(compatible, opt)
		}
	}
	return compatible
}

// dedupe returns the ids with duplicates removed, first occurrence wins.
func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	return unique
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
