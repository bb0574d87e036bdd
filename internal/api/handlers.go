// internal/api/handlers.go
package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dustin/go-humanize"

	"carconfig/internal/catalog"
	"carconfig/internal/configurator"
	"carconfig/internal/data"
	"carconfig/internal/engine"
	"carconfig/internal/logger"
	"carconfig/internal/middleware"
)

// Injected collaborators for the handlers
var (
	svc        *configurator.Service
	catService *catalog.Service
)

// SetConfigurator injects the configurator service
func SetConfigurator(s *configurator.Service) {
	svc = s
}

// SetCatalogService injects the catalog service (for listings and stats)
func SetCatalogService(s *catalog.Service) {
	catService = s
}

// displayPrice renders cents as a buyer-facing euro string. Formatting is a
// transport concern; the engine only ever sees cents.
func displayPrice(cents int64) string {
	return "€" + humanize.FormatFloat("#,###.##", float64(cents)/100)
}

// =============================================================================
// CAR LISTINGS AND PRICING
// =============================================================================

type carSummary struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	BasePriceCents    int64  `json:"base_price_cents"`
	MinimumPriceCents int64  `json:"minimum_price_cents"`
	MinimumPrice      string `json:"minimum_price"`
}

// ListCarsHandler returns every car with its "from €X" price.
func ListCarsHandler(w http.ResponseWriter, r *http.Request) {
	logger.LogHTTPRequest(r)

	cars := catService.Cars()
	summaries := make([]carSummary, 0, len(cars))
	for _, car := range cars {
		minimum, err := svc.MinimumPrice(car.ID)
		if err != nil {
			middleware.WriteAPIError(w, r, http.StatusInternalServerError, "pricing_failed",
				"Could not compute minimum price", err.Error())
			return
		}
		summaries = append(summaries, carSummary{
			ID:                car.ID,
			Name:              car.Name,
			BasePriceCents:    car.BasePriceCents,
			MinimumPriceCents: minimum,
			MinimumPrice:      displayPrice(minimum),
		})
	}

	middleware.WriteAPISuccess(w, r, summaries)
}

// CarOptionsHandler returns the options a car offers. With ?selected=a,b it
// returns only the options still compatible with that selection.
func CarOptionsHandler(w http.ResponseWriter, r *http.Request) {
	logger.LogHTTPRequest(r)
	carID := r.PathValue("carID")

	selected := splitIDs(r.URL.Query().Get("selected"))

	options, err := svc.CompatibleOptions(carID, selected)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	middleware.WriteAPISuccess(w, r, map[string]interface{}{
		"car_id":  carID,
		"options": options,
	})
}

// CarPriceHandler returns the minimum price of a car and, when a selection
// is given, the selection's total.
func CarPriceHandler(w http.ResponseWriter, r *http.Request) {
	logger.LogHTTPRequest(r)
	carID := r.PathValue("carID")

	minimum, err := svc.MinimumPrice(carID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response := map[string]interface{}{
		"car_id":              carID,
		"minimum_price_cents": minimum,
		"minimum_price":       displayPrice(minimum),
	}

	if raw := r.URL.Query().Get("selected"); raw != "" {
		total, err := svc.TotalPrice(carID, splitIDs(raw))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		response["total_price_cents"] = total
		response["total_price"] = displayPrice(total)
	}

	middleware.WriteAPISuccess(w, r, response)
}

// CarDefaultsHandler returns the pre-filled mandatory picks for a car and
// the total they add up to.
func CarDefaultsHandler(w http.ResponseWriter, r *http.Request) {
	logger.LogHTTPRequest(r)
	carID := r.PathValue("carID")

	defaults, err := svc.DefaultSelection(carID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	total, err := svc.TotalPrice(carID, defaults)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	middleware.WriteAPISuccess(w, r, map[string]interface{}{
		"car_id":            carID,
		"default_options":   defaults,
		"total_price_cents": total,
		"total_price":       displayPrice(total),
	})
}

// CarConflictsHandler returns the ids disabled by picking one option, for
// UI hints.
func CarConflictsHandler(w http.ResponseWriter, r *http.Request) {
	logger.LogHTTPRequest(r)
	carID := r.PathValue("carID")

	optionID := r.URL.Query().Get("option_id")
	if optionID == "" {
		middleware.WriteAPIError(w, r, http.StatusBadRequest, "missing_option_id",
			"option_id query parameter is required", "")
		return
	}

	conflicts, err := svc.ConflictingOptions(carID, optionID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	middleware.WriteAPISuccess(w, r, map[string]interface{}{
		"car_id":                 carID,
		"option_id":              optionID,
		"conflicting_option_ids": conflicts,
	})
}

// =============================================================================
// VALIDATION AND SAVING
// =============================================================================

type validateRequest struct {
	CarID             string   `json:"car_id"`
	SelectedOptionIDs []string `json:"selected_option_ids"`
}

// ValidateHandler runs the full rule check and returns the verdict. Rule
// violations are a 200 with valid=false; only an unknown car or malformed
// catalog data is an error status.
func ValidateHandler(w http.ResponseWriter, r *http.Request) {
	logger.LogHTTPRequest(r)

	var req validateRequest
	if err := middleware.ParseJSONRequest(r, &req); err != nil {
		middleware.WriteAPIError(w, r, http.StatusBadRequest, "invalid_request",
			"Could not parse request body", err.Error())
		return
	}

	verdict, err := svc.ValidateConfiguration(req.CarID, req.SelectedOptionIDs)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	middleware.WriteAPISuccess(w, r, verdict)
}

type saveRequest struct {
	CarID             string   `json:"car_id"`
	BuyerName         string   `json:"buyer_name"`
	BuyerEmail        string   `json:"buyer_email"`
	SelectedOptionIDs []string `json:"selected_option_ids"`
}

type savedResponse struct {
	ConfigurationID string         `json:"configuration_id"`
	Verdict         engine.Verdict `json:"verdict"`
	TotalPriceCents int64          `json:"total_price_cents"`
	TotalPrice      string         `json:"total_price"`
}

// SaveConfigurationHandler persists a configuration after a fresh-snapshot
// re-validation. An invalid configuration is rejected, never auto-fixed.
func SaveConfigurationHandler(w http.ResponseWriter, r *http.Request) {
	logger.LogHTTPRequest(r)

	var req saveRequest
	if err := middleware.ParseJSONRequest(r, &req); err != nil {
		middleware.WriteAPIError(w, r, http.StatusBadRequest, "invalid_request",
			"Could not parse request body", err.Error())
		return
	}

	cfg, err := svc.Save(r.Context(), configurator.SaveRequest{
		CarID:           req.CarID,
		BuyerName:       req.BuyerName,
		BuyerEmail:      req.BuyerEmail,
		SelectedOptions: req.SelectedOptionIDs,
	})
	if err != nil {
		var invalid *configurator.ErrInvalidConfiguration
		if errors.As(err, &invalid) {
			middleware.WriteAPIError(w, r, http.StatusUnprocessableEntity, "invalid_configuration",
				invalid.Verdict.Message, "")
			return
		}
		writeServiceError(w, r, err)
		return
	}

	middleware.WriteAPISuccess(w, r, savedResponse{
		ConfigurationID: cfg.ID,
		Verdict:         engine.Verdict{Valid: true, Message: "configuration is valid"},
		TotalPriceCents: cfg.TotalPriceCents,
		TotalPrice:      displayPrice(cfg.TotalPriceCents),
	})
}

// GetConfigurationHandler returns one saved configuration.
func GetConfigurationHandler(w http.ResponseWriter, r *http.Request) {
	logger.LogHTTPRequest(r)
	id := r.PathValue("id")

	cfg, err := data.GetConfigurationByID(r.Context(), id)
	if err != nil {
		middleware.WriteAPIError(w, r, http.StatusNotFound, "configuration_not_found",
			fmt.Sprintf("No configuration with id %s", id), "")
		return
	}

	middleware.WriteAPISuccess(w, r, cfg)
}

// =============================================================================
// STATS
// =============================================================================

// StatsHandler exposes catalog and persistence counters for monitoring.
func StatsHandler(w http.ResponseWriter, r *http.Request) {
	logger.LogHTTPRequest(r)

	stats := catService.GetStats()
	if count, err := data.CountConfigurations(r.Context()); err == nil {
		stats["saved_configurations_count"] = count
	}

	middleware.WriteAPISuccess(w, r, stats)
}

// =============================================================================
// HELPERS
// =============================================================================

func splitIDs(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	return ids
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, configurator.ErrCarNotFound):
		middleware.WriteAPIError(w, r, http.StatusNotFound, "car_not_found", "Unknown car id", err.Error())
	case errors.Is(err, engine.ErrMalformedCatalog):
		logger.LogError("Malformed catalog data reached a handler: %v", err)
		middleware.WriteAPIError(w, r, http.StatusInternalServerError, "catalog_error",
			"Catalog data is malformed", "")
	default:
		logger.LogHTTPError(r, http.StatusInternalServerError, err)
		middleware.WriteAPIError(w, r, http.StatusInternalServerError, "internal_error",
			"An internal error occurred", "")
	}
}
