package engine

import "carconfig/internal/catalog"

// TotalPrice is the car's base price plus the prices of all selected
// offered options, in euro cents. Ids the car does not offer contribute
// nothing: by the time money is computed the membership check has already
// flagged them, and pricing must never fail on display paths. Duplicate
// ids in the selection are counted once.
func TotalPrice(car *catalog.Car, selectedIDs []string) int64 {
	total := car.BasePriceCents
	counted := make(map[string]bool, len(selectedIDs))
	for _, id := range selectedIDs {
		if counted[id] {
			continue
		}
		counted[id] = true
		if opt, ok := car.Option(id); ok {
			total += opt.PriceCents
		}
	}
	return total
}

// MinimumPrice is the cheapest purchasable total for the car: base price
// plus the cheapest option of every required group the car offers. This is
// the "from €X" figure shown before the buyer picks anything, and it equals
// TotalPrice over DefaultSelection by construction.
func MinimumPrice(car *catalog.Car, specs []catalog.GroupSpec) int64 {
	total := car.BasePriceCents
	for _, spec := range specs {
		if !spec.Required {
			continue
		}
		if pick, ok := cheapestInGroup(car.Options, spec.Group); ok {
			total += pick.PriceCents
		}
	}
	return total
}
