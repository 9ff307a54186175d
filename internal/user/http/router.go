package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	commonerrors "github.com/AlibekovAA/userfmt/internal/common/errors"
	commonhttp "github.com/AlibekovAA/userfmt/internal/common/http"
	"github.com/AlibekovAA/userfmt/internal/common/logger"
	"github.com/AlibekovAA/userfmt/internal/user/domain"
	"github.com/AlibekovAA/userfmt/internal/user/service"
)

const includeHistoryParam = "include_history"

type batchRequest struct {
	Users []domain.UserInput `json:"users"`
}

type batchResponse struct {
	Users []domain.ProcessedUser `json:"users"`
}

type Handler struct {
	formatter    service.Formatter
	log          *logger.Logger
	errorHandler *commonhttp.ErrorHandler
}

// NewHandler routes the formatting API. /health and /metrics are mounted by
// the caller so they stay outside auth and rate limiting.
func NewHandler(formatter service.Formatter, log *logger.Logger, requestTimeout time.Duration) http.Handler {
	h := &Handler{
		formatter:    formatter,
		log:          log,
		errorHandler: commonhttp.NewErrorHandler(log),
	}

	post := commonhttp.RequireMethod(http.MethodPost)
	timeout := commonhttp.WithTimeout(requestTimeout)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/users/format", post(timeout(h.format)))
	mux.HandleFunc("/api/users/format/batch", post(timeout(h.formatBatch)))
	mux.HandleFunc("/", h.notFound)
	return mux
}

func (h *Handler) format(w http.ResponseWriter, r *http.Request) {
	includeHistory, ok := h.includeHistory(w, r)
	if !ok {
		return
	}

	var input domain.UserInput
	if err := commonhttp.DecodeJSON(r, &input); err != nil {
		h.writeDecodeError(w, r, err)
		return
	}

	result, err := h.formatter.Format(r.Context(), input, includeHistory)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) formatBatch(w http.ResponseWriter, r *http.Request) {
	includeHistory, ok := h.includeHistory(w, r)
	if !ok {
		return
	}

	var req batchRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.writeDecodeError(w, r, err)
		return
	}

	results, err := h.formatter.FormatBatch(r.Context(), req.Users, includeHistory)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if results == nil {
		results = []domain.ProcessedUser{}
	}
	commonhttp.WriteJSON(w, http.StatusOK, batchResponse{Users: results})
}

func (h *Handler) includeHistory(w http.ResponseWriter, r *http.Request) (bool, bool) {
	includeHistory, err := commonhttp.QueryBool(r, includeHistoryParam)
	if err != nil {
		h.log.WithFields(r.Context(), logger.Fields{
			"path":   r.URL.Path,
			"action": "format_invalid_query",
		}).Warnf("format failed: invalid %s: %v", includeHistoryParam, err)
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidQuery,
			"include_history must be a boolean", map[string]any{"param": includeHistoryParam},
			commonhttp.TraceIDFromContext(r.Context()))
		return false, false
	}
	return includeHistory, true
}

func (h *Handler) writeDecodeError(w http.ResponseWriter, r *http.Request, err error) {
	traceID := commonhttp.TraceIDFromContext(r.Context())

	if commonhttp.IsBodyTooLarge(err) {
		commonhttp.WriteErrorEnvelope(w, http.StatusRequestEntityTooLarge, commonhttp.CodeBodyTooLarge, "request body too large", nil, traceID)
		return
	}

	h.log.WithFields(r.Context(), logger.Fields{
		"path":   r.URL.Path,
		"action": "format_invalid_json",
	}).Warnf("format failed: invalid json: %v", err)

	message := "invalid json"
	if errors.Is(err, domain.ErrInvalidID) {
		message = domain.ErrInvalidID.Error()
	}
	commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, message, nil, traceID)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var details map[string]any
	if bie, ok := service.AsBatchItemError(err); ok {
		details = map[string]any{"index": bie.Index}
	}

	if _, ok := commonerrors.AsDomainError(err); !ok && errors.Is(err, context.DeadlineExceeded) {
		err = commonerrors.ErrServiceUnavailable.WithCause(err)
	}

	h.errorHandler.HandleError(w, r, err, details)
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	commonhttp.WriteErrorEnvelope(w, http.StatusNotFound, commonhttp.CodeNotFound, "not found", nil, commonhttp.TraceIDFromContext(r.Context()))
}
