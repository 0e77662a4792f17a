package middleware

import (
	"net/http"
	"time"

	"github.com/emicklei/go-restful/v3"
	"github.com/rs/zerolog/log"
	"github.com/supersafe-ai/guard-agent/internal/ratelimit"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// HandleError writes a JSON error body with the given status.
func HandleError(resp *restful.Response, err error, status int) {
	resp.WriteHeaderAndEntity(status, ErrorResponse{Error: err.Error()})
}

// Logger logs one line per request with method, path, status, and latency.
func Logger(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
	start := time.Now()
	chain.ProcessFilter(req, resp)
	log.Info().
		Str("method", req.Request.Method).
		Str("path", req.Request.URL.Path).
		Int("status", resp.StatusCode()).
		Dur("duration", time.Since(start)).
		Msg("request")
}

// RecoverPanic converts handler panics into a 500 response.
func RecoverPanic(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Str("path", req.Request.URL.Path).
				Msg("handler panic")
			resp.WriteHeaderAndEntity(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		}
	}()
	chain.ProcessFilter(req, resp)
}

// RateLimit refuses requests over the per-client budget with 429. The client
// key is the X-Client-ID header when present, the remote address otherwise.
func RateLimit(limiter *ratelimit.Limiter) restful.FilterFunction {
	return func(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
		key := req.HeaderParameter("X-Client-ID")
		if key == "" {
			key = req.Request.RemoteAddr
		}

		if !limiter.Admit(key) {
			log.Warn().Str("client", key).Msg("rate limit exceeded")
			resp.WriteHeaderAndEntity(http.StatusTooManyRequests, ErrorResponse{Error: "rate limit exceeded"})
			return
		}
		chain.ProcessFilter(req, resp)
	}
}
