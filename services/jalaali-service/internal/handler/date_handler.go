package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"metargb/jalaali/services/jalaali-service/internal/models"
	"metargb/jalaali/services/jalaali-service/internal/service"
	"metargb/jalaali/shared/pkg/helpers"
	"metargb/jalaali/shared/pkg/jalaali"
	"metargb/jalaali/shared/pkg/logger"
)

// DateService is the behaviour the handlers need from service.DateService
type DateService interface {
	Parse(ctx context.Context, text, separator string) (jalaali.DateTime, error)
	Format(ctx context.Context, date, pattern, templateName string) (string, error)
	FromCompact(value string) (jalaali.DateTime, error)
	Ramadan(ctx context.Context, date string, adjustment *int) ([]jalaali.DateTime, error)
	Now() jalaali.DateTime
	GetTemplate(ctx context.Context, name string) (*models.FormatTemplate, error)
	ListTemplates(ctx context.Context) ([]*models.FormatTemplate, error)
	SaveTemplate(ctx context.Context, name, pattern, description string) (*models.FormatTemplate, error)
	DeleteTemplate(ctx context.Context, name string) error
}

type DateHandler struct {
	svc       DateService
	validator *helpers.CustomValidator
	log       *logger.Logger
}

func NewDateHandler(svc DateService, log *logger.Logger) *DateHandler {
	return &DateHandler{
		svc:       svc,
		validator: helpers.NewCustomValidator(),
		log:       log,
	}
}

// Register mounts the date routes on mux
func (h *DateHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/jalaali/parse", h.Parse)
	mux.HandleFunc("POST /api/jalaali/format", h.Format)
	mux.HandleFunc("GET /api/jalaali/compact", h.Compact)
	mux.HandleFunc("GET /api/jalaali/ramadan", h.Ramadan)
	mux.HandleFunc("GET /api/jalaali/now", h.Now)
	mux.HandleFunc("GET /api/jalaali/templates", h.ListTemplates)
	mux.HandleFunc("GET /api/jalaali/templates/{name}", h.GetTemplate)
	mux.HandleFunc("PUT /api/jalaali/templates/{name}", h.SaveTemplate)
	mux.HandleFunc("DELETE /api/jalaali/templates/{name}", h.DeleteTemplate)
}

type dateResponse struct {
	Year        int    `json:"year"`
	Month       int    `json:"month"`
	Day         int    `json:"day"`
	Hour        int    `json:"hour"`
	Minute      int    `json:"minute"`
	Second      int    `json:"second"`
	Millisecond int    `json:"millisecond"`
	MonthName   string `json:"month_name"`
	Weekday     string `json:"weekday"`
	DayOfYear   int    `json:"day_of_year"`
	WeekOfYear  int    `json:"week_of_year"`
	IsLeapYear  bool   `json:"is_leap_year"`
	Formatted   string `json:"formatted"`
	Compact     int    `json:"compact"`
	CompactLong int64  `json:"compact_long"`
	Instant     string `json:"instant"`
}

func newDateResponse(d jalaali.DateTime) dateResponse {
	return dateResponse{
		Year:        d.Year(),
		Month:       d.Month(),
		Day:         d.Day(),
		Hour:        d.Hour(),
		Minute:      d.Minute(),
		Second:      d.Second(),
		Millisecond: d.Millisecond(),
		MonthName:   d.MonthName(),
		Weekday:     d.WeekdayName(),
		DayOfYear:   d.DayOfYear(),
		WeekOfYear:  d.WeekOfYear(),
		IsLeapYear:  d.IsLeapYear(),
		Formatted:   d.String(),
		Compact:     d.ShortDateInt(),
		CompactLong: d.LongDateTimeInt(),
		Instant:     d.Time().Format(time.RFC3339Nano),
	}
}

type templateResponse struct {
	Name        string `json:"name"`
	Pattern     string `json:"pattern"`
	Description string `json:"description"`
	Example     string `json:"example"`
	UpdatedAt   string `json:"updated_at"`
}

func newTemplateResponse(t *models.FormatTemplate, now jalaali.DateTime) templateResponse {
	return templateResponse{
		Name:        t.Name,
		Pattern:     t.Pattern,
		Description: t.Description,
		Example:     now.Format(t.Pattern),
		UpdatedAt:   t.UpdatedAt.String(),
	}
}

// Parse handles POST /api/jalaali/parse
func (h *DateHandler) Parse(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text      string `json:"text" validate:"required"`
		Separator string `json:"separator" validate:"separator_pattern"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	d, err := h.svc.Parse(r.Context(), req.Text, req.Separator)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": newDateResponse(d)})
}

// Format handles POST /api/jalaali/format
// Body: date (Jalaali text or RFC 3339), pattern or template
func (h *DateHandler) Format(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date     string `json:"date" validate:"required"`
		Pattern  string `json:"pattern" validate:"omitempty,format_pattern"`
		Template string `json:"template" validate:"omitempty,max=64"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	formatted, err := h.svc.Format(r.Context(), req.Date, req.Pattern, req.Template)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"formatted": formatted})
}

// Compact handles GET /api/jalaali/compact?value=13920305
func (h *DateHandler) Compact(w http.ResponseWriter, r *http.Request) {
	req := struct {
		Value string `validate:"required,persian_num"`
	}{Value: r.URL.Query().Get("value")}
	if !h.validate(w, r, &req) {
		return
	}

	d, err := h.svc.FromCompact(req.Value)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": newDateResponse(d)})
}

// Ramadan handles GET /api/jalaali/ramadan
// Query params: date (optional), adjustment (-2..2, optional)
func (h *DateHandler) Ramadan(w http.ResponseWriter, r *http.Request) {
	var adjustment *int
	if raw := r.URL.Query().Get("adjustment"); raw != "" {
		n, err := strconv.Atoi(helpers.NormalizeDigits(raw))
		if err != nil {
			locale := helpers.LocaleFromRequest(r)
			helpers.WriteValidationErrorResponseFromMap(w, map[string]string{
				"adjustment": fmt.Sprintf(helpers.GetLocaleTranslations(locale).Invalid, "adjustment"),
			}, locale)
			return
		}
		adjustment = &n
	}

	starts, err := h.svc.Ramadan(r.Context(), r.URL.Query().Get("date"), adjustment)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	data := make([]dateResponse, 0, len(starts))
	for _, d := range starts {
		data = append(data, newDateResponse(d))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": data})
}

// Now handles GET /api/jalaali/now?pattern=..
func (h *DateHandler) Now(w http.ResponseWriter, r *http.Request) {
	now := h.svc.Now()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"formatted": now.Format(r.URL.Query().Get("pattern")),
		"data":      newDateResponse(now),
	})
}

// ListTemplates handles GET /api/jalaali/templates
func (h *DateHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.svc.ListTemplates(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	now := h.svc.Now()
	data := make([]templateResponse, 0, len(templates))
	for _, t := range templates {
		data = append(data, newTemplateResponse(t, now))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": data})
}

// GetTemplate handles GET /api/jalaali/templates/{name}
func (h *DateHandler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.GetTemplate(r.Context(), r.PathValue("name"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": newTemplateResponse(t, h.svc.Now())})
}

// SaveTemplate handles PUT /api/jalaali/templates/{name}
func (h *DateHandler) SaveTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"-" validate:"required,max=64"`
		Pattern     string `json:"pattern" validate:"required,format_pattern,max=255"`
		Description string `json:"description" validate:"max=255"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Name = r.PathValue("name")
	if !h.validate(w, r, &req) {
		return
	}

	t, err := h.svc.SaveTemplate(r.Context(), req.Name, req.Pattern, req.Description)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": newTemplateResponse(t, h.svc.Now())})
}

// DeleteTemplate handles DELETE /api/jalaali/templates/{name}
func (h *DateHandler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteTemplate(r.Context(), r.PathValue("name")); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *DateHandler) decode(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return h.validate(w, r, req)
}

func (h *DateHandler) validate(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	err := h.validator.Validate(req)
	if err == nil {
		return true
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		helpers.WriteValidationErrorResponse(w, validationErrors, helpers.LocaleFromRequest(r))
		return false
	}
	writeError(w, http.StatusBadRequest, err.Error())
	return false
}

// writeServiceError maps date and template errors to HTTP statuses
func (h *DateHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var formatErr *jalaali.FormatError
	var rangeErr *jalaali.RangeError
	var conversionErr *jalaali.ConversionError

	switch {
	case errors.As(err, &formatErr), errors.As(err, &rangeErr), errors.As(err, &conversionErr):
		helpers.WriteValidationErrorResponseFromString(w, err.Error(), helpers.LocaleFromRequest(r))
	case errors.Is(err, service.ErrTemplateNotFound):
		writeError(w, http.StatusNotFound, "template not found")
	default:
		h.log.WithRequestID(logger.RequestIDFromContext(r.Context())).WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).WithError(err).Error("Request failed")
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
