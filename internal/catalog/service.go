package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"carconfig/internal/logger"
)

// Loader produces a full catalog snapshot from some backing store.
// internal/data implements this against SQLite.
type Loader interface {
	LoadCatalog(ctx context.Context) (*Catalog, error)
}

// Service holds the current catalog in memory and hands out snapshots.
// Engine calls never read through the service mid-computation; callers
// fetch a car plus the rule data once, up front.
type Service struct {
	cars     map[string]*Car
	carOrder []string
	edges    []ConflictEdge
	specs    []GroupSpec

	lastLoaded time.Time
	mutex      sync.RWMutex
}

var validate = validator.New()

func NewService() *Service {
	return &Service{
		cars: make(map[string]*Car),
	}
}

// LoadFromFile loads the unified catalog.json file.
func (s *Service) LoadFromFile(path string) error {
	logger.LogInfo("Loading catalog from file: %s", path)

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read catalog file: %w", err)
	}

	var cat Catalog
	if err := json.Unmarshal(raw, &cat); err != nil {
		return fmt.Errorf("failed to parse catalog file: %w", err)
	}

	return s.Replace(&cat)
}

// LoadFromStore loads the catalog from a backing store (SQLite).
func (s *Service) LoadFromStore(ctx context.Context, loader Loader) error {
	logger.LogInfo("Loading catalog from store")

	cat, err := loader.LoadCatalog(ctx)
	if err != nil {
		return fmt.Errorf("failed to load catalog from store: %w", err)
	}

	return s.Replace(cat)
}

// Replace swaps in a new catalog after structural validation. A catalog
// that fails validation (negative price, missing id) is a collaborator
// bug and is rejected outright, leaving the previous snapshot in place.
func (s *Service) Replace(cat *Catalog) error {
	if cat == nil {
		return fmt.Errorf("catalog must not be nil")
	}
	if err := validate.Struct(cat); err != nil {
		return fmt.Errorf("catalog failed validation: %w", err)
	}

	cars := make(map[string]*Car, len(cat.Cars))
	carOrder := make([]string, 0, len(cat.Cars))
	for i := range cat.Cars {
		car := cat.Cars[i]
		if _, dup := cars[car.ID]; dup {
			return fmt.Errorf("duplicate car id in catalog: %s", car.ID)
		}
		cars[car.ID] = &car
		carOrder = append(carOrder, car.ID)
	}

	s.mutex.Lock()
	s.cars = cars
	s.carOrder = carOrder
	s.edges = append([]ConflictEdge(nil), cat.ConflictEdges...)
	s.specs = append([]GroupSpec(nil), cat.GroupSpecs...)
	s.lastLoaded = time.Now()
	s.mutex.Unlock()

	logger.LogInfo("Catalog loaded: %d cars, %d conflict edges, %d group specs",
		len(cars), len(cat.ConflictEdges), len(cat.GroupSpecs))
	return nil
}

// Car returns a copy of the car with the given id. The copy owns its own
// options slice so a snapshot survives a concurrent catalog reload.
func (s *Service) Car(id string) (*Car, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	car, ok := s.cars[id]
	if !ok {
		return nil, false
	}
	snapshot := *car
	snapshot.Options = append([]Option(nil), car.Options...)
	return &snapshot, true
}

// Cars returns all cars in catalog order.
func (s *Service) Cars() []Car {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	cars := make([]Car, 0, len(s.carOrder))
	for _, id := range s.carOrder {
		car := *s.cars[id]
		car.Options = append([]Option(nil), s.cars[id].Options...)
		cars = append(cars, car)
	}
	return cars
}

// GroupSpecs returns a copy of the known group specs.
func (s *Service) GroupSpecs() []GroupSpec {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return append([]GroupSpec(nil), s.specs...)
}

// ConflictEdges returns a copy of all explicit conflict edges.
func (s *Service) ConflictEdges() []ConflictEdge {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return append([]ConflictEdge(nil), s.edges...)
}

// EdgesTouching returns the conflict edges that involve the given option,
// in either direction.
func (s *Service) EdgesTouching(optionID string) []ConflictEdge {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var touching []ConflictEdge
	for _, edge := range s.edges {
		if edge.FromOptionID == optionID || edge.ToOptionID == optionID {
			touching = append(touching, edge)
		}
	}
	return touching
}

// IsStale reports whether the snapshot is older than maxAge.
func (s *Service) IsStale(maxAge time.Duration) bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return time.Since(s.lastLoaded) > maxAge
}

// CacheAge returns how long ago the catalog was loaded.
func (s *Service) CacheAge() time.Duration {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return time.Since(s.lastLoaded)
}

// GetStats returns catalog statistics for debugging/monitoring
func (s *Service) GetStats() map[string]interface{} {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	optionCount := 0
	for _, car := range s.cars {
		optionCount += len(car.Options)
	}

	return map[string]interface{}{
		"cars_count":           len(s.cars),
		"options_count":        optionCount,
		"conflict_edges_count": len(s.edges),
		"group_specs_count":    len(s.specs),
		"last_loaded":          s.lastLoaded,
		"cache_age":            time.Since(s.lastLoaded).String(),
	}
}
