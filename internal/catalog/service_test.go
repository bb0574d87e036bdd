package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalogJSON = `{
  "cars": [
    {
      "id": "roadster",
      "name": "GT Roadster",
      "base_price_cents": 4500000,
      "options": [
        {"id": "sport-engine", "name": "Sport Engine", "category": "engine", "price_cents": 500000, "exclusive_group": "engine"},
        {"id": "hybrid-engine", "name": "Hybrid Engine", "category": "engine", "price_cents": 300000, "exclusive_group": "engine", "required": true},
        {"id": "metallic-paint", "name": "Metallic Paint", "category": "paint", "price_cents": 100000, "exclusive_group": "paint"}
      ]
    }
  ],
  "conflict_edges": [
    {"from_option_id": "sport-engine", "to_option_id": "eco-tires", "type": "technical"}
  ],
  "group_specs": [
    {"group": "engine", "required": true},
    {"group": "paint", "required": false}
  ]
}`

func writeTestCatalog(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	svc := NewService()

	require.NoError(t, svc.LoadFromFile(writeTestCatalog(t, testCatalogJSON)))

	car, ok := svc.Car("roadster")
	require.True(t, ok)
	assert.Equal(t, "GT Roadster", car.Name)
	assert.Equal(t, int64(4_500_000), car.BasePriceCents)
	assert.Len(t, car.Options, 3)

	assert.Len(t, svc.GroupSpecs(), 2)
	assert.Len(t, svc.ConflictEdges(), 1)
}

func TestLoadFromFileMissing(t *testing.T) {
	svc := NewService()

	err := svc.LoadFromFile(filepath.Join(t.TempDir(), "nope.json"))

	assert.Error(t, err)
}

func TestReplaceRejectsNegativePrice(t *testing.T) {
	svc := NewService()

	err := svc.Replace(&Catalog{
		Cars: []Car{{ID: "bad", BasePriceCents: -100}},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation")
}

func TestReplaceRejectsOptionWithoutID(t *testing.T) {
	svc := NewService()

	err := svc.Replace(&Catalog{
		Cars: []Car{{ID: "car", Options: []Option{{PriceCents: 100}}}},
	})

	assert.Error(t, err)
}

func TestReplaceRejectsDuplicateCarIDs(t *testing.T) {
	svc := NewService()

	err := svc.Replace(&Catalog{
		Cars: []Car{{ID: "twin"}, {ID: "twin"}},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate car id")
}

func TestReplaceKeepsPreviousSnapshotOnFailure(t *testing.T) {
	svc := NewService()
	require.NoError(t, svc.LoadFromFile(writeTestCatalog(t, testCatalogJSON)))

	err := svc.Replace(&Catalog{Cars: []Car{{ID: "bad", BasePriceCents: -1}}})
	require.Error(t, err)

	_, ok := svc.Car("roadster")
	assert.True(t, ok, "a rejected reload must leave the old catalog in place")
}

func TestCarReturnsIsolatedSnapshot(t *testing.T) {
	svc := NewService()
	require.NoError(t, svc.LoadFromFile(writeTestCatalog(t, testCatalogJSON)))

	first, ok := svc.Car("roadster")
	require.True(t, ok)
	first.Options[0].PriceCents = 1

	second, ok := svc.Car("roadster")
	require.True(t, ok)
	assert.Equal(t, int64(500_000), second.Options[0].PriceCents,
		"mutating a snapshot must not leak into the service")
}

func TestEdgesTouching(t *testing.T) {
	svc := NewService()
	require.NoError(t, svc.LoadFromFile(writeTestCatalog(t, testCatalogJSON)))

	assert.Len(t, svc.EdgesTouching("sport-engine"), 1)
	assert.Len(t, svc.EdgesTouching("eco-tires"), 1)
	assert.Empty(t, svc.EdgesTouching("metallic-paint"))
}

func TestOptionsByCategory(t *testing.T) {
	svc := NewService()
	require.NoError(t, svc.LoadFromFile(writeTestCatalog(t, testCatalogJSON)))

	car, ok := svc.Car("roadster")
	require.True(t, ok)

	byCategory := car.OptionsByCategory()
	assert.Len(t, byCategory["engine"], 2)
	assert.Len(t, byCategory["paint"], 1)
}

func TestUnknownCar(t *testing.T) {
	svc := NewService()
	require.NoError(t, svc.LoadFromFile(writeTestCatalog(t, testCatalogJSON)))

	_, ok := svc.Car("hovercraft")
	assert.False(t, ok)
}
