package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/collo670/NAPANGA-APP/internal/contextkeys"
	"github.com/collo670/NAPANGA-APP/internal/contracts"
	"github.com/collo670/NAPANGA-APP/internal/core/domain"
	"github.com/collo670/NAPANGA-APP/internal/core/port"
	"github.com/collo670/NAPANGA-APP/internal/core/port/usecases_port"

	"github.com/go-chi/chi/v5"
)

// PropertyHandler содержит обработчики для API объявлений
type PropertyHandler struct {
	addUseCase    usecases_port.AddPropertyUseCasePort
	getUseCase    usecases_port.GetPropertyUseCasePort
	updateUseCase usecases_port.UpdatePropertyUseCasePort
	deleteUseCase usecases_port.DeletePropertyUseCasePort
	filterUseCase usecases_port.FilterPropertiesUseCasePort
	statsUseCase  usecases_port.CountryStatsUseCasePort
}

func NewPropertyHandler(
	addUC usecases_port.AddPropertyUseCasePort,
	getUC usecases_port.GetPropertyUseCasePort,
	updateUC usecases_port.UpdatePropertyUseCasePort,
	deleteUC usecases_port.DeletePropertyUseCasePort,
	filterUC usecases_port.FilterPropertiesUseCasePort,
	statsUC usecases_port.CountryStatsUseCasePort,
) *PropertyHandler {
	return &PropertyHandler{
		addUseCase:    addUC,
		getUseCase:    getUC,
		updateUseCase: updateUC,
		deleteUseCase: deleteUC,
		filterUseCase: filterUC,
		statsUseCase:  statsUC,
	}
}

// AddProperty обрабатывает POST /api/v1/properties
func (h *PropertyHandler) AddProperty(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	body, err := io.ReadAll(r.Body)
	if err != nil {
		WriteJSONError(w, r, http.StatusBadRequest, "Failed to read request body")
		return
	}

	// Валидируем тело по JSON-схеме до декодирования в структуру
	if err := contracts.ValidatePropertyDraft(body); err != nil {
		logger.Warn("Property draft failed schema validation", port.Fields{"error": err.Error()})
		WriteJSONError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	var draft domain.PropertyDraft
	if err := json.Unmarshal(body, &draft); err != nil {
		WriteJSONError(w, r, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	id, err := h.addUseCase.Execute(r.Context(), draft)
	if err != nil {
		logger.Error("Failed to add property", err, nil)
		if errors.Is(err, domain.ErrWriteConflict) {
			WriteJSONError(w, r, http.StatusConflict, "Property with this ID already exists")
			return
		}
		WriteJSONError(w, r, http.StatusServiceUnavailable, "Storage is unavailable")
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, AddPropertyResponse{ID: id})
}

// GetProperty обрабатывает GET /api/v1/properties/{propertyID}
func (h *PropertyHandler) GetProperty(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())
	propertyID := chi.URLParam(r, "propertyID")

	record, err := h.getUseCase.Execute(r.Context(), propertyID)
	if err != nil {
		logger.Error("Failed to get property", err, port.Fields{"property_id": propertyID})
		WriteJSONError(w, r, http.StatusServiceUnavailable, "Storage is unavailable")
		return
	}
	if record == nil {
		WriteJSONError(w, r, http.StatusNotFound, "Property not found")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, record)
}

// UpdateProperty обрабатывает PUT /api/v1/properties/{propertyID}
func (h *PropertyHandler) UpdateProperty(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())
	propertyID := chi.URLParam(r, "propertyID")

	var record domain.Property
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		WriteJSONError(w, r, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	record.ID = propertyID

	if err := h.updateUseCase.Execute(r.Context(), record); err != nil {
		logger.Error("Failed to update property", err, port.Fields{"property_id": propertyID})
		WriteJSONError(w, r, http.StatusServiceUnavailable, "Storage is unavailable")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, StatusResponse{Status: "updated"})
}

// DeleteProperty обрабатывает DELETE /api/v1/properties/{propertyID}
func (h *PropertyHandler) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())
	propertyID := chi.URLParam(r, "propertyID")

	if err := h.deleteUseCase.Execute(r.Context(), propertyID); err != nil {
		logger.Error("Failed to delete property", err, port.Fields{"property_id": propertyID})
		WriteJSONError(w, r, http.StatusServiceUnavailable, "Storage is unavailable")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, StatusResponse{Status: "deleted"})
}

// ListProperties обрабатывает GET /api/v1/properties с критериями в query
func (h *PropertyHandler) ListProperties(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	criteria, err := parseFilterCriteria(r)
	if err != nil {
		WriteJSONError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	records, err := h.filterUseCase.Execute(r.Context(), criteria)
	if err != nil {
		logger.Error("Failed to filter properties", err, nil)
		WriteJSONError(w, r, http.StatusServiceUnavailable, "Storage is unavailable")
		return
	}
	if records == nil {
		records = []domain.Property{}
	}

	RespondWithJSON(w, r, http.StatusOK, records)
}

// CountryStats обрабатывает GET /api/v1/stats/countries
func (h *PropertyHandler) CountryStats(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	stats, err := h.statsUseCase.Execute(r.Context())
	if err != nil {
		logger.Error("Failed to compute country stats", err, nil)
		WriteJSONError(w, r, http.StatusServiceUnavailable, "Storage is unavailable")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, stats)
}

func parseFilterCriteria(r *http.Request) (domain.FilterCriteria, error) {
	q := r.URL.Query()

	criteria := domain.FilterCriteria{
		Country:      q.Get("country"),
		City:         q.Get("city"),
		Area:         q.Get("area"),
		PropertyType: q.Get("type"),
		Bedrooms:     q.Get("bedrooms"),
		Status:       q.Get("status"),
	}

	if v := q.Get("minPrice"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return criteria, errors.New("minPrice must be an integer")
		}
		criteria.MinPrice = &n
	}
	if v := q.Get("maxPrice"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return criteria, errors.New("maxPrice must be an integer")
		}
		criteria.MaxPrice = &n
	}
	if v := q.Get("featured"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return criteria, errors.New("featured must be a boolean")
		}
		criteria.Featured = &b
	}
	if v := q.Get("amenities"); v != "" {
		for _, amenity := range strings.Split(v, ",") {
			amenity = strings.TrimSpace(amenity)
			if amenity != "" {
				criteria.Amenities = append(criteria.Amenities, amenity)
			}
		}
	}

	return criteria, nil
}
