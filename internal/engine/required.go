package engine

import (
	"sort"

	"carconfig/internal/catalog"
)

// RequiredResult is the outcome of a required-group completeness check.
type RequiredResult struct {
	Valid                 bool
	MissingRequiredGroups []string
}

// DefaultSelection picks, for every required group the car actually offers,
// the cheapest option in that group. Ties go to the first offered option so
// the result is deterministic and repeat calls agree. Required groups the
// car does not offer are skipped.
func DefaultSelection(offered []catalog.Option, specs []catalog.GroupSpec) []string {
	var defaults []string
	for _, spec := range specs {
		if !spec.Required {
			continue
		}
		if pick, ok := cheapestInGroup(offered, spec.Group); ok {
			defaults = append(defaults, pick.ID)
		}
	}
	return defaults
}

// ValidateRequired checks that every required group with offered options
// has exactly one selected representative. Zero and two-plus picks are both
// reported as missing; the resolver does not assume the compatibility check
// already ran.
func ValidateRequired(selectedIDs []string, offered []catalog.Option, specs []catalog.GroupSpec) RequiredResult {
	selected := make(map[string]bool, len(selectedIDs))
	for _, id := range selectedIDs {
		selected[id] = true
	}

	var missing []string
	for _, spec := range specs {
		if !spec.Required {
			continue
		}

		groupOffered := false
		picks := 0
		for _, opt := range offered {
			if opt.ExclusiveGroup != spec.Group {
				continue
			}
			groupOffered = true
			if selected[opt.ID] {
				picks++
			}
		}

		if groupOffered && picks != 1 {
			missing = append(missing, spec.Group)
		}
	}

	sort.Strings(missing)
	return RequiredResult{Valid: len(missing) == 0, MissingRequiredGroups: missing}
}

// IsOptionRemovable reports whether the option may be deselected. It is
// false exactly when the option is the sole selected member of a required
// group, since dropping it would leave the group unsatisfied with no way
// for the caller to tell the buyer which pick replaced it.
func IsOptionRemovable(optionID string, selectedIDs []string, offered []catalog.Option, specs []catalog.GroupSpec) bool {
	opt, ok := findOption(offered, optionID)
	if !ok || opt.ExclusiveGroup == "" {
		return true
	}

	required := false
	for _, spec := range specs {
		if spec.Group == opt.ExclusiveGroup {
			required = spec.Required
			break
		}
	}
	if !required {
		return true
	}

	selected := make(map[string]bool, len(selectedIDs))
	for _, id := range selectedIDs {
		selected[id] = true
	}

	groupPicks := 0
	for _, candidate := range offered {
		if candidate.ExclusiveGroup == opt.ExclusiveGroup && selected[candidate.ID] {
			groupPicks++
		}
	}

	// Removable only while another group member remains selected. More than
	// one pick is already invalid, but removal toward validity stays legal.
	return groupPicks > 1
}

func cheapestInGroup(offered []catalog.Option, group string) (catalog.Option, bool) {
	var cheapest catalog.Option
	found := false
	for _, opt := range offered {
		if opt.ExclusiveGroup != group {
			continue
		}
		if !found || opt.PriceCents < cheapest.PriceCents {
			cheapest = opt
			found = true
		}
	}
	return cheapest, found
}

func findOption(offered []catalog.Option, id string) (catalog.Option, bool) {
	for _, opt := range offered {
		if opt.ID == id {
			return opt, true
		}
	}
	return catalog.Option{}, false
}
