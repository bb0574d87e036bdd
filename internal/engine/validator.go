package engine

import (
	"fmt"
	"sort"
	"strings"

	"carconfig/internal/catalog"
)

// Verdict is the single result surface for a full configuration check.
// Rule violations are data here, never errors: a buyer experimenting with
// options is the normal case. Callers branch on Valid and the detail
// collections, not on error values.
type Verdict struct {
	Valid                 bool     `json:"valid"`
	UnknownOptionIDs      []string `json:"unknown_option_ids,omitempty"`
	ConflictingOptionIDs  []string `json:"conflicting_option_ids,omitempty"`
	MissingRequiredGroups []string `json:"missing_required_groups,omitempty"`
	Message               string   `json:"message"`
}

// ValidateConfiguration runs the membership check, the compatibility check
// and the required-group check over one catalog snapshot. All three run
// unconditionally so one verdict reports every problem at once. The only
// error return is malformed catalog data, which signals a bug in the
// collaborator that supplied it.
func ValidateConfiguration(car *catalog.Car, specs []catalog.GroupSpec, edges []catalog.ConflictEdge, selectedIDs []string) (Verdict, error) {
	if err := checkCatalogShape(car); err != nil {
		return Verdict{}, err
	}

	ids := dedupe(selectedIDs)

	var unknown []string
	for _, id := range ids {
		if !car.Offers(id) {
			unknown = append(unknown, id)
		}
	}
	sort.Strings(unknown)

	compat := ValidateCompatibility(ids, car.Options, edges)
	required := ValidateRequired(ids, car.Options, specs)

	verdict := Verdict{
		Valid:                 len(unknown) == 0 && compat.Valid && required.Valid,
		UnknownOptionIDs:      unknown,
		ConflictingOptionIDs:  compat.ConflictingOptionIDs,
		MissingRequiredGroups: required.MissingRequiredGroups,
	}
	verdict.Message = buildMessage(verdict)
	return verdict, nil
}

func buildMessage(v Verdict) string {
	if v.Valid {
		return "configuration is valid"
	}

	var parts []string
	if len(v.UnknownOptionIDs) > 0 {
		parts = append(parts, fmt.Sprintf("options not offered by this car: %s", strings.Join(v.UnknownOptionIDs, ", ")))
	}
	if len(v.ConflictingOptionIDs) > 0 {
		parts = append(parts, fmt.Sprintf("mutually exclusive options selected: %s", strings.Join(v.ConflictingOptionIDs, ", ")))
	}
	if len(v.MissingRequiredGroups) > 0 {
		parts = append(parts, fmt.Sprintf("missing required groups: %s", strings.Join(v.MissingRequiredGroups, ", ")))
	}
	return strings.Join(parts, "; ")
}

// checkCatalogShape rejects catalog data that should never reach the
// engine. These are programming errors upstream, not buyer mistakes.
func checkCatalogShape(car *catalog.Car) error {
	if car == nil {
		return fmt.Errorf("%w: car is nil", ErrMalformedCatalog)
	}
	if car.BasePriceCents < 0 {
		return fmt.Errorf("%w: car %s has negative base price", ErrMalformedCatalog, car.ID)
	}
	for _, opt := range car.Options {
		if opt.ID == "" {
			return fmt.Errorf("%w: car %s offers an option without id", ErrMalformedCatalog, car.ID)
		}
		if opt.PriceCents < 0 {
			return fmt.Errorf("%w: option %s has negative price", ErrMalformedCatalog, opt.ID)
		}
	}
	return nil
}
