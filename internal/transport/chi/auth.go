package chi

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"strings"
)

// publicPaths answer without an API key.
var publicPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// apiKeys holds SHA-256 digests so every comparison takes the same time.
type apiKeys [][sha256.Size]byte

func newAPIKeys(keys []string) apiKeys {
	out := make(apiKeys, 0, len(keys))
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, sha256.Sum256([]byte(k)))
		}
	}
	return out
}

func (ks apiKeys) valid(token string) bool {
	sum := sha256.Sum256([]byte(token))
	ok := 0
	for _, k := range ks {
		ok |= subtle.ConstantTimeCompare(sum[:], k[:])
	}
	return ok == 1
}

// bearerToken extracts the credential of an "Authorization: Bearer <token>" header.
// The scheme is case-insensitive.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// BearerAuthMiddleware rejects requests without a configured API key.
// With no keys configured it passes every request through.
func BearerAuthMiddleware(keys []string) func(http.Handler) http.Handler {
	valid := newAPIKeys(keys)

	return func(next http.Handler) http.Handler {
		if len(valid) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := publicPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			token, ok := bearerToken(header)
			switch {
			case header == "":
				unauthorized(w, "missing authorization header")
			case !ok:
				unauthorized(w, "authorization header must use Bearer scheme")
			case !valid.valid(token):
				unauthorized(w, "invalid api key")
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="findmyfood"`)
	writeError(w, http.StatusUnauthorized, ErrorCodeUnauthorized, message)
}
