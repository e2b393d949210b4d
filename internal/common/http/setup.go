package http

import (
	"net/http"

	"github.com/okovalenko/bloglist/internal/common/constants"
	"github.com/okovalenko/bloglist/internal/common/httpmetrics"
	"github.com/okovalenko/bloglist/internal/common/logger"
)

// BuildBaseHandler wraps the application mux in the standard middleware
// onion: security headers, panic recovery, trace ids, body size limit,
// request metrics.
func BuildBaseHandler(log *logger.Logger, handler http.Handler) http.Handler {
	metrics := httpmetrics.New()
	recovery := RecoveryMiddleware(log)
	traceID := TraceIDMiddleware
	maxRequestSize := MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)
	securityHeaders := SecurityHeadersMiddleware

	return securityHeaders(recovery(traceID(maxRequestSize(metrics.Wrap(handler)))))
}
