package adaptor

import (
	"net/http"
	"strings"
	"time"

	"hospitality-booking/internal/data/entity"
	"hospitality-booking/internal/usecase"
	"hospitality-booking/pkg/httputil"
	"hospitality-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var errorMapper = httputil.NewErrorMapper().
	WithMapping(usecase.ErrValidation, http.StatusBadRequest, "Validation failed").
	WithMapping(usecase.ErrNotFound, http.StatusNotFound, "Not found").
	WithMapping(usecase.ErrConflict, http.StatusConflict, "Resource not available").
	WithMapping(usecase.ErrInvalidTransition, http.StatusUnprocessableEntity, "Invalid status transition").
	WithMapping(usecase.ErrReferenceExhausted, http.StatusInternalServerError, "Could not allocate booking reference")

// writeServiceError maps a usecase error onto the JSON envelope. Client
// errors carry the error text, server errors only the generic message.
func writeServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	info := errorMapper.Map(err)

	if info.Status >= http.StatusInternalServerError {
		log.Error(operation+" failed", zap.Error(err), zap.String("operation", operation))
		utils.ResponseJSON(w, info.Status, false, info.Message, nil, nil)
		return
	}

	log.Warn(operation+" rejected",
		zap.Error(err),
		zap.String("operation", operation),
		zap.Int("status", info.Status))
	if info.Status == http.StatusConflict {
		utils.ResponseConflict(w, err.Error(), nil)
		return
	}
	utils.ResponseJSON(w, info.Status, false, err.Error(), nil, nil)
}

// parseResourceRef reads the {kind} and {id} path params.
func parseResourceRef(r *http.Request) (entity.ResourceRef, map[string]string) {
	errs := map[string]string{}

	kind, err := entity.ParseResourceKind(chi.URLParam(r, "kind"))
	if err != nil {
		errs["kind"] = "Unknown resource kind"
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		errs["id"] = "Must be a valid UUID"
	}
	if len(errs) > 0 {
		return entity.ResourceRef{}, errs
	}
	return entity.ResourceRef{Kind: kind, ID: id}, nil
}

func parseIDParam(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	return id, err == nil
}

// parseTime accepts RFC3339 timestamps and plain dates (midnight UTC).
func parseTime(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func parseUUIDs(raw []string) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		// the request validator has already checked the format
		ids = append(ids, uuid.MustParse(s))
	}
	return ids
}
