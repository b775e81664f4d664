package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/crmgate/crmgate/internal/auth"
	"github.com/crmgate/crmgate/internal/cache"
	"github.com/crmgate/crmgate/internal/metrics"
	"github.com/crmgate/crmgate/internal/model"
)

// APIKeyHeader carries the caller's shared API key.
const APIKeyHeader = "x-api-key"

// DecisionCache is the TTL-bounded cache sitting in front of the
// authorization gate. The gate itself never caches; bounding repeat lookups
// is this enforcement layer's responsibility.
type DecisionCache interface {
	GetDecision(ctx context.Context, cacheKey string) (model.Effect, bool)
	SetDecision(ctx context.Context, cacheKey string, effect model.Effect, ttl time.Duration) error
}

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger *slog.Logger
	Gate   *auth.Gate

	// Cache may be nil, in which case every request consults the gate.
	Cache    DecisionCache
	CacheTTL time.Duration

	Metrics metrics.Recorder
}

// Auth returns a middleware that authorizes API requests.
// It extracts the shared key from the x-api-key header and asks the gate
// for a decision bound to the request path. A gate error is treated exactly
// like Deny: the middleware fails closed, never open.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	recorder := cfg.Metrics
	if recorder == nil {
		recorder = metrics.NewNoop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(APIKeyHeader)
			resource := r.URL.Path

			if token == "" {
				cfg.Logger.Warn("authorization denied",
					slog.String("reason", "missing_token"),
					slog.String("resource", resource),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				recorder.IncAuthDecision(string(model.EffectDeny))
				writeAuthError(w)
				return
			}

			cacheKey := cache.DecisionKey(token, resource)

			if cfg.Cache != nil {
				if effect, ok := cfg.Cache.GetDecision(r.Context(), cacheKey); ok {
					recorder.IncAuthCacheHit()
					if effect == model.EffectAllow {
						next.ServeHTTP(w, r)
						return
					}

					cfg.Logger.Warn("authorization denied",
						slog.String("reason", "cached_deny"),
						slog.String("resource", resource),
						slog.String("request_id", GetRequestID(r.Context())),
					)
					writeAuthError(w)
					return
				}
				recorder.IncAuthCacheMiss()
			}

			decision, err := cfg.Gate.Authorize(r.Context(), token, resource)
			if err != nil {
				// Fail closed: a broken secret backend must read as Deny.
				cfg.Logger.Error("authorization backend error",
					slog.String("error", err.Error()),
					slog.String("resource", resource),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				recorder.IncAuthError()
				writeAuthError(w)
				return
			}

			effect := model.EffectDeny
			if decision.Allowed() {
				effect = model.EffectAllow
			}
			recorder.IncAuthDecision(string(effect))

			if cfg.Cache != nil {
				if err := cfg.Cache.SetDecision(r.Context(), cacheKey, effect, cfg.CacheTTL); err != nil {
					cfg.Logger.Warn("failed to cache authorization decision",
						slog.String("error", err.Error()),
						slog.String("request_id", GetRequestID(r.Context())),
					)
				}
			}

			if !decision.Allowed() {
				cfg.Logger.Warn("authorization denied",
					slog.String("reason", "token_mismatch"),
					slog.String("resource", resource),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// writeAuthError writes the 401 envelope. The body deliberately reveals
// nothing about why the request was refused.
func writeAuthError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)

	response := map[string]any{
		"statusCode": http.StatusUnauthorized,
		"body":       map[string]any{"message": "Unauthorized"},
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		_ = err
	}
}
