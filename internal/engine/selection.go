package engine

import (
	"sort"

	"carconfig/internal/catalog"
)

// Selection is the set of options a buyer currently holds for one car.
// It changes through exactly two transitions: Add, which first evicts a
// selected member of the incoming option's exclusive group, and Remove,
// which refuses to orphan a required group. No call site can bypass the
// compatibility rules because no other mutation exists.
type Selection struct {
	car   *catalog.Car
	specs []catalog.GroupSpec
	ids   map[string]bool
}

// NewSelection returns an empty selection for the given car.
func NewSelection(car *catalog.Car, specs []catalog.GroupSpec) *Selection {
	return &Selection{
		car:   car,
		specs: specs,
		ids:   make(map[string]bool),
	}
}

// Add selects an option. If another option of the same exclusive group is
// already selected it is evicted first (radio-button semantics). Adding an
// already-selected option is a no-op.
func (s *Selection) Add(optionID string) error {
	opt, ok := s.car.Option(optionID)
	if !ok {
		return ErrUnknownOption
	}

	if opt.ExclusiveGroup != "" {
		for _, offered := range s.car.Options {
			if offered.ID != optionID && offered.ExclusiveGroup == opt.ExclusiveGroup {
				delete(s.ids, offered.ID)
			}
		}
	}

	s.ids[optionID] = true
	return nil
}

// Remove deselects an option. Removing the sole selected member of a
// required group is refused; the buyer must Add a replacement instead,
// which evicts the old pick in the same transition.
func (s *Selection) Remove(optionID string) error {
	if !s.ids[optionID] {
		return ErrOptionNotSelected
	}
	if !IsOptionRemovable(optionID, s.IDs(), s.car.Options, s.specs) {
		return ErrOptionLocked
	}
	delete(s.ids, optionID)
	return nil
}

// Contains reports whether the option is currently selected.
func (s *Selection) Contains(optionID string) bool {
	return s.ids[optionID]
}

// IDs returns the selected option ids, sorted for determinism.
func (s *Selection) IDs() []string {
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of selected options.
func (s *Selection) Len() int {
	return len(s.ids)
}
