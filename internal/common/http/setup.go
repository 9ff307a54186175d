package http

import (
	"net/http"

	"github.com/AlibekovAA/userfmt/internal/common/constants"
	"github.com/AlibekovAA/userfmt/internal/common/httpmetrics"
	"github.com/AlibekovAA/userfmt/internal/common/logger"
)

func BuildBaseHandler(log *logger.Logger, handler http.Handler) http.Handler {
	collector := httpmetrics.New()
	recovery := RecoveryMiddleware(log)
	maxRequestSize := MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)

	return SecurityHeadersMiddleware(TraceIDMiddleware(recovery(maxRequestSize(collector.Wrap(handler)))))
}
