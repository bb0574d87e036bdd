package catalog

// Option is one piece of optional equipment a car can be configured with.
// Prices are euro cents so totals never touch floating point.
type Option struct {
	ID             string `json:"id" validate:"required"`
	Name           string `json:"name"`
	Category       string `json:"category"`
	PriceCents     int64  `json:"price_cents" validate:"gte=0"`
	ExclusiveGroup string `json:"exclusive_group,omitempty"`
	// Required is a legacy display hint carried over from the old catalog
	// exports. Whether a group is mandatory is decided by GroupSpec.
	Required bool `json:"required,omitempty"`
}

// Car is a base vehicle plus the options it actually offers. The option
// order is the display order and is meaningful: default picks break price
// ties by first occurrence.
type Car struct {
	ID             string   `json:"id" validate:"required"`
	Name           string   `json:"name"`
	BasePriceCents int64    `json:"base_price_cents" validate:"gte=0"`
	Options        []Option `json:"options" validate:"dive"`
}

// ConflictEdge is an explicit pairwise exclusion between two options,
// independent of exclusive groups. Edges are symmetric.
type ConflictEdge struct {
	FromOptionID string `json:"from_option_id" validate:"required"`
	ToOptionID   string `json:"to_option_id" validate:"required"`
	Type         string `json:"type,omitempty"`
}

// GroupSpec says whether an exclusive group is mandatory. This is the
// authoritative source; per-option Required flags are ignored for rules.
type GroupSpec struct {
	Group    string `json:"group" validate:"required"`
	Required bool   `json:"required"`
}

// Catalog is the unified load format (catalog.json and the SQLite store
// both produce this shape).
type Catalog struct {
	Cars          []Car          `json:"cars" validate:"dive"`
	ConflictEdges []ConflictEdge `json:"conflict_edges" validate:"dive"`
	GroupSpecs    []GroupSpec    `json:"group_specs" validate:"dive"`
}

// OptionsByCategory derives a category-keyed view of a car's options.
// Grouping is always computed from the flat list, never stored.
func (c *Car) OptionsByCategory() map[string][]Option {
	byCategory := make(map[string][]Option)
	for _, opt := range c.Options {
		byCategory[opt.Category] = append(byCategory[opt.Category], opt)
	}
	return byCategory
}

// Option returns the offered option with the given id.
func (c *Car) Option(id string) (Option, bool) {
	for _, opt := range c.Options {
		if opt.ID == id {
			return opt, true
		}
	}
	return Option{}, false
}

// Offers reports whether the car offers the given option id.
func (c *Car) Offers(id string) bool {
	_, ok := c.Option(id)
	return ok
}
