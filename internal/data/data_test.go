package data

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carconfig/internal/catalog"
)

func setupTestDB(t *testing.T) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, InitDB(dbPath))
	require.NoError(t, CreateTables())

	t.Cleanup(func() {
		CloseDB()
	})
}

func testCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Cars: []catalog.Car{
			{
				ID:             "roadster",
				Name:           "GT Roadster",
				BasePriceCents: 4_500_000,
				Options: []catalog.Option{
					{ID: "sport-engine", Name: "Sport Engine", Category: "engine", PriceCents: 500_000, ExclusiveGroup: "engine"},
					{ID: "hybrid-engine", Name: "Hybrid Engine", Category: "engine", PriceCents: 300_000, ExclusiveGroup: "engine", Required: true},
					{ID: "metallic-paint", Name: "Metallic Paint", Category: "paint", PriceCents: 100_000, ExclusiveGroup: "paint"},
				},
			},
			{
				ID:             "van",
				Name:           "City Van",
				BasePriceCents: 2_000_000,
			},
		},
		ConflictEdges: []catalog.ConflictEdge{
			{FromOptionID: "sport-engine", ToOptionID: "metallic-paint", Type: "styling"},
		},
		GroupSpecs: []catalog.GroupSpec{
			{Group: "engine", Required: true},
			{Group: "paint", Required: false},
		},
	}
}

func TestCatalogSeedAndLoadRoundTrip(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	store := CatalogStore{}

	require.NoError(t, store.SeedCatalog(ctx, testCatalog()))

	loaded, err := store.LoadCatalog(ctx)
	require.NoError(t, err)

	require.Len(t, loaded.Cars, 2)
	assert.Equal(t, "roadster", loaded.Cars[0].ID, "car order must survive the round trip")
	assert.Equal(t, int64(4_500_000), loaded.Cars[0].BasePriceCents)

	options := loaded.Cars[0].Options
	require.Len(t, options, 3)
	assert.Equal(t, "sport-engine", options[0].ID, "option order must survive the round trip")
	assert.Equal(t, "engine", options[1].ExclusiveGroup)
	assert.True(t, options[1].Required)

	require.Len(t, loaded.ConflictEdges, 1)
	assert.Equal(t, "styling", loaded.ConflictEdges[0].Type)

	require.Len(t, loaded.GroupSpecs, 2)
}

func TestSeedCatalogReplacesExisting(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	store := CatalogStore{}

	require.NoError(t, store.SeedCatalog(ctx, testCatalog()))
	require.NoError(t, store.SeedCatalog(ctx, &catalog.Catalog{
		Cars: []catalog.Car{{ID: "solo", Name: "Solo", BasePriceCents: 1}},
	}))

	loaded, err := store.LoadCatalog(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Cars, 1)
	assert.Equal(t, "solo", loaded.Cars[0].ID)
	assert.Empty(t, loaded.ConflictEdges)
	assert.Empty(t, loaded.GroupSpecs)
}

func TestConfigurationInsertAndGet(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	cfg := &SavedConfiguration{
		ID:              "cfg-123",
		CarID:           "roadster",
		BuyerName:       "Jordan Doe",
		BuyerEmail:      "jordan@example.com",
		SelectedOptions: []string{"hybrid-engine", "metallic-paint"},
		TotalPriceCents: 4_900_000,
		CreatedAt:       time.Now().UTC().Truncate(time.Second),
	}

	require.NoError(t, InsertConfiguration(ctx, cfg))

	got, err := GetConfigurationByID(ctx, "cfg-123")
	require.NoError(t, err)
	assert.Equal(t, cfg.CarID, got.CarID)
	assert.Equal(t, cfg.BuyerEmail, got.BuyerEmail)
	assert.Equal(t, cfg.SelectedOptions, got.SelectedOptions)
	assert.Equal(t, cfg.TotalPriceCents, got.TotalPriceCents)
	assert.True(t, cfg.CreatedAt.Equal(got.CreatedAt))
}

func TestConfigurationGetMissing(t *testing.T) {
	setupTestDB(t)

	_, err := GetConfigurationByID(context.Background(), "missing")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestListConfigurationsByCar(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i, id := range []string{"cfg-old", "cfg-new"} {
		require.NoError(t, InsertConfiguration(ctx, &SavedConfiguration{
			ID:              id,
			CarID:           "roadster",
			SelectedOptions: []string{},
			CreatedAt:       base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, InsertConfiguration(ctx, &SavedConfiguration{
		ID:              "cfg-other",
		CarID:           "van",
		SelectedOptions: []string{},
		CreatedAt:       base,
	}))

	configs, err := ListConfigurationsByCar(ctx, "roadster")
	require.NoError(t, err)
	require.Len(t, configs, 2)
	assert.Equal(t, "cfg-new", configs[0].ID, "newest first")

	count, err := CountConfigurations(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
