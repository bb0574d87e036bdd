// Package configurator is the surface callers use to work with buyer
// configurations. It fetches one catalog snapshot per call and hands it to
// the engine, so a concurrent catalog reload never changes the data a
// single computation sees.
package configurator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"carconfig/internal/catalog"
	"carconfig/internal/data"
	"carconfig/internal/engine"
	"carconfig/internal/logger"
)

// ErrCarNotFound is returned when a car id is not in the catalog.
var ErrCarNotFound = errors.New("car not found")

// ErrInvalidConfiguration is returned by Save when the configuration fails
// validation against the freshest snapshot. The verdict rides along so the
// caller can report details.
type ErrInvalidConfiguration struct {
	Verdict engine.Verdict
}

func (e *ErrInvalidConfiguration) Error() string {
	return fmt.Sprintf("configuration is not valid: %s", e.Verdict.Message)
}

// Service wires the catalog snapshot provider to the engine.
type Service struct {
	catalog *catalog.Service
}

func NewService(cat *catalog.Service) *Service {
	return &Service{catalog: cat}
}

// snapshot fetches everything one engine call needs, once.
func (s *Service) snapshot(carID string) (*catalog.Car, []catalog.GroupSpec, []catalog.ConflictEdge, error) {
	car, ok := s.catalog.Car(carID)
	if !ok {
		return nil, nil, nil, fmt.Errorf("%w: %s", ErrCarNotFound, carID)
	}
	return car, s.catalog.GroupSpecs(), s.catalog.ConflictEdges(), nil
}

// ValidateConfiguration runs the full rule check for a candidate selection.
func (s *Service) ValidateConfiguration(carID string, selectedIDs []string) (engine.Verdict, error) {
	car, specs, edges, err := s.snapshot(carID)
	if err != nil {
		return engine.Verdict{}, err
	}
	return engine.ValidateConfiguration(car, specs, edges, selectedIDs)
}

// ConflictingOptions returns the ids that become unavailable when the given
// option is picked, for "disable these" UI hints.
func (s *Service) ConflictingOptions(carID, optionID string) ([]string, error) {
	car, _, edges, err := s.snapshot(carID)
	if err != nil {
		return nil, err
	}

	conflicts := engine.ConflictsOf(optionID, car.Options, edges)
	ids := make([]string, 0, len(conflicts))
	for _, opt := range car.Options {
		if conflicts[opt.ID] {
			ids = append(ids, opt.ID)
		}
	}
	return ids, nil
}

// CompatibleOptions returns the offered options still pickable alongside
// the current selection, in offer order.
func (s *Service) CompatibleOptions(carID string, selectedIDs []string) ([]catalog.Option, error) {
	car, _, edges, err := s.snapshot(carID)
	if err != nil {
		return nil, err
	}
	return engine.FilterCompatible(car.Options, selectedIDs, edges), nil
}

// DefaultSelection returns the cheapest pick per required group, used to
// pre-fill mandatory choices when the buyer first opens a car.
func (s *Service) DefaultSelection(carID string) ([]string, error) {
	car, specs, _, err := s.snapshot(carID)
	if err != nil {
		return nil, err
	}
	return engine.DefaultSelection(car.Options, specs), nil
}

// MinimumPrice returns the "from €X" figure for a car, in cents.
func (s *Service) MinimumPrice(carID string) (int64, error) {
	car, specs, _, err := s.snapshot(carID)
	if err != nil {
		return 0, err
	}
	return engine.MinimumPrice(car, specs), nil
}

// TotalPrice returns the price of a concrete selection, in cents. Unknown
// ids are priced at zero; validation reports them separately.
func (s *Service) TotalPrice(carID string, selectedIDs []string) (int64, error) {
	car, _, _, err := s.snapshot(carID)
	if err != nil {
		return 0, err
	}
	return engine.TotalPrice(car, selectedIDs), nil
}

// IsOptionRemovable reports whether deselecting the option is allowed for
// the current selection.
func (s *Service) IsOptionRemovable(carID, optionID string, selectedIDs []string) (bool, error) {
	car, specs, _, err := s.snapshot(carID)
	if err != nil {
		return false, err
	}
	return engine.IsOptionRemovable(optionID, selectedIDs, car.Options, specs), nil
}

// SaveRequest carries the buyer fields for a configuration save.
type SaveRequest struct {
	CarID           string
	BuyerName       string
	BuyerEmail      string
	SelectedOptions []string
}

// Save re-validates the configuration against the freshest snapshot and
// persists it only on a clean verdict. A failed re-check rejects the save;
// it never silently fixes the selection.
func (s *Service) Save(ctx context.Context, req SaveRequest) (*data.SavedConfiguration, error) {
	car, specs, edges, err := s.snapshot(req.CarID)
	if err != nil {
		return nil, err
	}

	verdict, err := engine.ValidateConfiguration(car, specs, edges, req.SelectedOptions)
	if err != nil {
		return nil, err
	}
	if !verdict.Valid {
		logger.LogWarn("Rejecting save for car %s: %s", req.CarID, verdict.Message)
		return nil, &ErrInvalidConfiguration{Verdict: verdict}
	}

	cfg := &data.SavedConfiguration{
		ID:              uuid.NewString(),
		CarID:           req.CarID,
		BuyerName:       req.BuyerName,
		BuyerEmail:      req.BuyerEmail,
		SelectedOptions: req.SelectedOptions,
		TotalPriceCents: engine.TotalPrice(car, req.SelectedOptions),
		CreatedAt:       time.Now().UTC(),
	}

	if err := data.InsertConfiguration(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to persist configuration: %w", err)
	}

	logger.LogInfo("Saved configuration %s for car %s (%d options, total %d cents)",
		cfg.ID, cfg.CarID, len(cfg.SelectedOptions), cfg.TotalPriceCents)
	return cfg, nil
}
