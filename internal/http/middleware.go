package httpapp

import (
	"context"
	"math"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/ratemymusic/rmm-api/internal/domain"
)

const requestIDHeader = "X-Request-Id"

type contextKey string

const raterContextKey contextKey = "rater"

// ContextWithRater stores the authenticated caller.
func ContextWithRater(ctx context.Context, rater *domain.RaterProfile) context.Context {
	return context.WithValue(ctx, raterContextKey, rater)
}

// RaterFromContext returns the authenticated caller, or nil.
func RaterFromContext(ctx context.Context) *domain.RaterProfile {
	rater, _ := ctx.Value(raterContextKey).(*domain.RaterProfile)
	return rater
}

// requestID keeps a client supplied X-Request-Id or generates one, echoes it
// back and exposes it through chi's request id accessor.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// authenticate resolves the Authorization header to a rater. Both the
// "Token <key>" and "Bearer <key>" schemes are accepted.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rater, err := h.Services.Auth.Authenticate(r.Context(), tokenFromHeader(r.Header.Get("Authorization")))
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithRater(r.Context(), rater)))
	})
}

func tokenFromHeader(header string) string {
	scheme, key, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok {
		return ""
	}
	switch strings.ToLower(scheme) {
	case "token", "bearer":
		return strings.TrimSpace(key)
	}
	return ""
}

// rateLimit throttles requests per client address.
func (h *Handler) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, retryAfter, err := h.Limiter.Allow(r.Context(), clientIP(r))
		if err != nil {
			h.Logger.WithRequest(middleware.GetReqID(r.Context())).Warn("Rate limiter degraded to local buckets", "error", err)
		}
		if !allowed {
			seconds := int(math.Ceil(retryAfter.Seconds()))
			if seconds < 1 {
				seconds = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(seconds))
			writeMessage(w, http.StatusTooManyRequests, "Too many attempts. Try again later.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// realIP honours X-Forwarded-For and friends only when the peer is a trusted
// proxy. Otherwise the rate limiter keys on the connection's own address.
func (h *Handler) realIP(next http.Handler) http.Handler {
	forwarded := middleware.RealIP(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.fromTrustedProxy(r) {
			forwarded.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) fromTrustedProxy(r *http.Request) bool {
	if len(h.TrustedProxies) == 0 {
		return false
	}
	addr, err := netip.ParseAddr(clientIP(r))
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range h.TrustedProxies {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
