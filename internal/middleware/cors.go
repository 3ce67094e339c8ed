package middleware

import (
	"net/http"
	"strings"
)

// corsMaxAge is how long, in seconds, browsers may cache a preflight result.
const corsMaxAge = "86400"

type corsPolicy struct {
	origins  map[string]bool
	wildcard bool
	methods  string
	headers  string
}

func newCORSPolicy(allowedOrigins, allowedMethods, allowedHeaders []string) *corsPolicy {
	p := &corsPolicy{
		origins: make(map[string]bool, len(allowedOrigins)),
		methods: strings.Join(allowedMethods, ", "),
		headers: strings.Join(allowedHeaders, ", "),
	}
	for _, origin := range allowedOrigins {
		if origin == "*" {
			p.wildcard = true
			continue
		}
		p.origins[origin] = true
	}
	return p
}

// allow reports whether origin may read responses and whether credentials
// may accompany it. A wildcard never grants credentials.
func (p *corsPolicy) allow(origin string) (allowed, credentials bool) {
	switch {
	case origin == "":
		return false, false
	case p.origins[origin]:
		return true, true
	case p.wildcard:
		return true, false
	default:
		return false, false
	}
}

// CORS returns a middleware that handles Cross-Origin Resource Sharing.
// Preflight OPTIONS requests are answered with 204 and never reach next.
func CORS(allowedOrigins, allowedMethods, allowedHeaders []string) Middleware {
	policy := newCORSPolicy(allowedOrigins, allowedMethods, allowedHeaders)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Add("Vary", "Origin")

			origin := r.Header.Get("Origin")
			if allowed, credentials := policy.allow(origin); allowed {
				h.Set("Access-Control-Allow-Origin", origin)
				if credentials {
					h.Set("Access-Control-Allow-Credentials", "true")
				}
			}

			h.Set("Access-Control-Allow-Methods", policy.methods)
			h.Set("Access-Control-Allow-Headers", policy.headers)
			h.Set("Access-Control-Max-Age", corsMaxAge)

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
