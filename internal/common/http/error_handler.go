package http

import (
	"net/http"
	"strconv"

	commonerrors "github.com/AlibekovAA/userfmt/internal/common/errors"
	"github.com/AlibekovAA/userfmt/internal/common/httpmetrics"
	"github.com/AlibekovAA/userfmt/internal/common/logger"
	"github.com/AlibekovAA/userfmt/internal/observability/metrics"
)

type ErrorHandler struct {
	log *logger.Logger
}

func NewErrorHandler(log *logger.Logger) *ErrorHandler {
	return &ErrorHandler{log: log}
}

// HandleError writes err as an error envelope. Extra details are merged into
// the envelope for domain errors.
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error, details map[string]any) {
	if err == nil {
		return
	}

	ctx := r.Context()
	traceID := TraceIDFromContext(ctx)

	if mfe, ok := commonerrors.AsMissingFieldError(err); ok {
		if details == nil {
			details = map[string]any{}
		}
		details["field"] = mfe.Field
	}

	domainErr, ok := commonerrors.AsDomainError(err)
	if !ok {
		h.log.WithFields(ctx, logger.Fields{
			"path":   r.URL.Path,
			"action": "unhandled_error",
		}).Errorf("unhandled error: %v", err)

		h.countHTTPError(r, http.StatusInternalServerError)
		WriteErrorEnvelope(w, http.StatusInternalServerError, commonerrors.ErrInternalError.Code(), commonerrors.ErrInternalError.Message(), nil, traceID)
		return
	}

	status := domainErr.HTTPStatus()
	fields := logger.Fields{
		"error_code": domainErr.Code(),
		"category":   string(domainErr.Category()),
		"status":     status,
		"action":     "domain_error",
	}
	if status >= http.StatusInternalServerError {
		h.log.WithFields(ctx, fields).Errorf("domain error: %v", err)
	} else if h.log.ShouldLog(logger.DEBUG) {
		h.log.WithFields(ctx, fields).Debugf("domain error: %v", err)
	}

	metrics.DomainErrorsTotal.WithLabelValues(
		string(domainErr.Category()),
		domainErr.Code(),
		strconv.Itoa(status),
	).Inc()
	h.countHTTPError(r, status)

	WriteErrorEnvelope(w, status, domainErr.Code(), domainErr.Message(), details, traceID)
}

func (h *ErrorHandler) countHTTPError(r *http.Request, status int) {
	metrics.HTTPErrorsTotal.WithLabelValues(
		strconv.Itoa(status),
		httpmetrics.NormalizePath(r.URL.Path),
		r.Method,
	).Inc()
}
