package engine

import "errors"

var (
	// ErrMalformedCatalog marks catalog data the engine refuses to compute
	// over (nil car, negative prices). Indicates a bug in the data supplier.
	ErrMalformedCatalog = errors.New("malformed catalog data")

	// ErrUnknownOption is returned by the selection reducer when an id is
	// not offered by the selection's car.
	ErrUnknownOption = errors.New("option not offered by this car")

	// ErrOptionNotSelected is returned when removing an id that is not in
	// the selection.
	ErrOptionNotSelected = errors.New("option is not selected")

	// ErrOptionLocked is returned when removing the sole selected member of
	// a required group.
	ErrOptionLocked = errors.New("option is the only pick of a required group")
)
