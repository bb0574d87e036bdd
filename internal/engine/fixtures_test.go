package engine

import "carconfig/internal/catalog"

// Test catalog: a roadster with a required engine group, an optional paint
// group, two free-standing options and one explicit technical conflict
// between the sport engine and the eco tires.
func roadsterCar() *catalog.Car {
	return &catalog.Car{
		ID:             "roadster",
		Name:           "GT Roadster",
		BasePriceCents: 4_500_000,
		Options: []catalog.Option{
			{ID: "sport-engine", Name: "Sport Engine", Category: "engine", PriceCents: 500_000, ExclusiveGroup: "engine"},
			{ID: "hybrid-engine", Name: "Hybrid Engine", Category: "engine", PriceCents: 300_000, ExclusiveGroup: "engine", Required: true},
			{ID: "metallic-paint", Name: "Metallic Paint", Category: "paint", PriceCents: 100_000, ExclusiveGroup: "paint"},
			{ID: "solid-paint", Name: "Solid Paint", Category: "paint", PriceCents: 0, ExclusiveGroup: "paint"},
			{ID: "premium-sound", Name: "Premium Sound", Category: "comfort", PriceCents: 80_000},
			{ID: "eco-tires", Name: "Eco Tires", Category: "wheels", PriceCents: 40_000},
		},
	}
}

func roadsterSpecs() []catalog.GroupSpec {
	return []catalog.GroupSpec{
		{Group: "engine", Required: true},
		{Group: "paint", Required: false},
	}
}

func roadsterEdges() []catalog.ConflictEdge {
	return []catalog.ConflictEdge{
		{FromOptionID: "sport-engine", ToOptionID: "eco-tires", Type: "technical"},
	}
}
