package configurator

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carconfig/internal/catalog"
	"carconfig/internal/data"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	cat := catalog.NewService()
	require.NoError(t, cat.Replace(&catalog.Catalog{
		Cars: []catalog.Car{
			{
				ID:             "roadster",
				Name:           "GT Roadster",
				BasePriceCents: 4_500_000,
				Options: []catalog.Option{
					{ID: "sport-engine", Name: "Sport Engine", Category: "engine", PriceCents: 500_000, ExclusiveGroup: "engine"},
					{ID: "hybrid-engine", Name: "Hybrid Engine", Category: "engine", PriceCents: 300_000, ExclusiveGroup: "engine", Required: true},
					{ID: "metallic-paint", Name: "Metallic Paint", Category: "paint", PriceCents: 100_000, ExclusiveGroup: "paint"},
					{ID: "premium-sound", Name: "Premium Sound", Category: "comfort", PriceCents: 80_000},
				},
			},
		},
		ConflictEdges: []catalog.ConflictEdge{
			{FromOptionID: "sport-engine", ToOptionID: "premium-sound", Type: "technical"},
		},
		GroupSpecs: []catalog.GroupSpec{
			{Group: "engine", Required: true},
			{Group: "paint", Required: false},
		},
	}))

	return NewService(cat)
}

func TestValidateConfigurationHappyPath(t *testing.T) {
	svc := newTestService(t)

	verdict, err := svc.ValidateConfiguration("roadster", []string{"hybrid-engine", "metallic-paint"})

	require.NoError(t, err)
	assert.True(t, verdict.Valid)
}

func TestValidateConfigurationConflict(t *testing.T) {
	svc := newTestService(t)

	verdict, err := svc.ValidateConfiguration("roadster", []string{"sport-engine", "hybrid-engine"})

	require.NoError(t, err)
	assert.False(t, verdict.Valid)
	assert.ElementsMatch(t, []string{"sport-engine", "hybrid-engine"}, verdict.ConflictingOptionIDs)
}

func TestValidateConfigurationUnknownCar(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.ValidateConfiguration("hovercraft", nil)

	assert.ErrorIs(t, err, ErrCarNotFound)
}

func TestDefaultSelectionAndMinimumPriceAgree(t *testing.T) {
	svc := newTestService(t)

	defaults, err := svc.DefaultSelection("roadster")
	require.NoError(t, err)
	assert.Equal(t, []string{"hybrid-engine"}, defaults)

	minimum, err := svc.MinimumPrice("roadster")
	require.NoError(t, err)

	total, err := svc.TotalPrice("roadster", defaults)
	require.NoError(t, err)

	assert.Equal(t, minimum, total)
	assert.Equal(t, int64(4_800_000), minimum)
}

func TestConflictingOptionsUnionsGroupAndEdges(t *testing.T) {
	svc := newTestService(t)

	conflicts, err := svc.ConflictingOptions("roadster", "sport-engine")

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"hybrid-engine", "premium-sound"}, conflicts)
}

func TestCompatibleOptionsAfterEnginePick(t *testing.T) {
	svc := newTestService(t)

	options, err := svc.CompatibleOptions("roadster", []string{"sport-engine"})
	require.NoError(t, err)

	ids := make([]string, 0, len(options))
	for _, opt := range options {
		ids = append(ids, opt.ID)
	}
	assert.Equal(t, []string{"sport-engine", "metallic-paint"}, ids)
}

func TestIsOptionRemovable(t *testing.T) {
	svc := newTestService(t)

	removable, err := svc.IsOptionRemovable("roadster", "hybrid-engine", []string{"hybrid-engine"})
	require.NoError(t, err)
	assert.False(t, removable)

	removable, err = svc.IsOptionRemovable("roadster", "metallic-paint", []string{"hybrid-engine", "metallic-paint"})
	require.NoError(t, err)
	assert.True(t, removable)
}

func TestSavePersistsValidConfiguration(t *testing.T) {
	svc := newTestService(t)
	setupTestDB(t)
	ctx := context.Background()

	cfg, err := svc.Save(ctx, SaveRequest{
		CarID:           "roadster",
		BuyerName:       "Jordan Doe",
		BuyerEmail:      "jordan@example.com",
		SelectedOptions: []string{"hybrid-engine", "metallic-paint"},
	})

	require.NoError(t, err)
	assert.NotEmpty(t, cfg.ID)
	assert.Equal(t, int64(4_900_000), cfg.TotalPriceCents)

	stored, err := data.GetConfigurationByID(ctx, cfg.ID)
	require.NoError(t, err)
	assert.Equal(t, cfg.SelectedOptions, stored.SelectedOptions)
}

func TestSaveRejectsInvalidConfiguration(t *testing.T) {
	svc := newTestService(t)
	setupTestDB(t)

	_, err := svc.Save(context.Background(), SaveRequest{
		CarID:           "roadster",
		SelectedOptions: []string{"sport-engine", "hybrid-engine"},
	})

	require.Error(t, err)
	var invalid *ErrInvalidConfiguration
	require.ErrorAs(t, err, &invalid)
	assert.ElementsMatch(t, []string{"sport-engine", "hybrid-engine"}, invalid.Verdict.ConflictingOptionIDs)

	count, err := data.CountConfigurations(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count, "nothing may be persisted for an invalid configuration")
}

func setupTestDB(t *testing.T) {
	t.Helper()
	require.NoError(t, data.InitDB(filepath.Join(t.TempDir(), "test.db")))
	require.NoError(t, data.CreateTables())
	t.Cleanup(func() { data.CloseDB() })
}
