package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carconfig/internal/catalog"
)

func TestValidateConfigurationValid(t *testing.T) {
	car := roadsterCar()

	verdict, err := ValidateConfiguration(car, roadsterSpecs(), roadsterEdges(),
		[]string{"hybrid-engine", "metallic-paint", "premium-sound"})

	require.NoError(t, err)
	assert.True(t, verdict.Valid)
	assert.Empty(t, verdict.UnknownOptionIDs)
	assert.Empty(t, verdict.ConflictingOptionIDs)
	assert.Empty(t, verdict.MissingRequiredGroups)
	assert.Equal(t, "configuration is valid", verdict.Message)
}

func TestValidateConfigurationUnknownOption(t *testing.T) {
	car := roadsterCar()

	verdict, err := ValidateConfiguration(car, roadsterSpecs(), roadsterEdges(),
		[]string{"hybrid-engine", "towbar"})

	require.NoError(t, err)
	assert.False(t, verdict.Valid)
	assert.Equal(t, []string{"towbar"}, verdict.UnknownOptionIDs)
	assert.Contains(t, verdict.Message, "not offered")
}

func TestValidateConfigurationReportsEveryProblemAtOnce(t *testing.T) {
	car := roadsterCar()

	// Two paints conflict, the engine group is unsatisfied, and one id is
	// unknown. None of the three checks may short-circuit the others.
	verdict, err := ValidateConfiguration(car, roadsterSpecs(), roadsterEdges(),
		[]string{"metallic-paint", "solid-paint", "towbar"})

	require.NoError(t, err)
	assert.False(t, verdict.Valid)
	assert.Equal(t, []string{"towbar"}, verdict.UnknownOptionIDs)
	assert.ElementsMatch(t, []string{"metallic-paint", "solid-paint"}, verdict.ConflictingOptionIDs)
	assert.Equal(t, []string{"engine"}, verdict.MissingRequiredGroups)
	assert.Contains(t, verdict.Message, "not offered")
	assert.Contains(t, verdict.Message, "mutually exclusive")
	assert.Contains(t, verdict.Message, "missing required groups")
}

func TestValidateConfigurationEmptySelectionReportsRequired(t *testing.T) {
	car := roadsterCar()

	verdict, err := ValidateConfiguration(car, roadsterSpecs(), roadsterEdges(), nil)

	require.NoError(t, err)
	assert.False(t, verdict.Valid)
	assert.Equal(t, []string{"engine"}, verdict.MissingRequiredGroups)
}

func TestValidateConfigurationNilCar(t *testing.T) {
	_, err := ValidateConfiguration(nil, roadsterSpecs(), nil, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedCatalog)
}

func TestValidateConfigurationNegativePrices(t *testing.T) {
	badBase := &catalog.Car{ID: "bad", BasePriceCents: -1}
	_, err := ValidateConfiguration(badBase, nil, nil, nil)
	assert.ErrorIs(t, err, ErrMalformedCatalog)

	badOption := &catalog.Car{ID: "bad", Options: []catalog.Option{{ID: "x", PriceCents: -100}}}
	_, err = ValidateConfiguration(badOption, nil, nil, nil)
	assert.ErrorIs(t, err, ErrMalformedCatalog)
}
