package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/httplog/v3"
	"github.com/golang-jwt/jwt/v5"
)

type accountIDKey struct{}

var errNoSubject = errors.New("token has no subject")

// AccountIDFromContext returns the authenticated account id, if any.
func AccountIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(accountIDKey{}).(string)
	return id, ok && id != ""
}

func withAccountID(ctx context.Context, accountID string) context.Context {
	return context.WithValue(ctx, accountIDKey{}, accountID)
}

// mustAccountID is only valid behind Authenticate.
func mustAccountID(r *http.Request) string {
	id, _ := AccountIDFromContext(r.Context())
	return id
}

// Authenticate verifies an HS256 bearer token and stores its subject as the
// account id. Any failure is answered with 403.
func Authenticate(secret []byte, issuer string) func(http.Handler) http.Handler {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}

	parser := jwt.NewParser(opts...)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			accountID, err := subjectFromRequest(parser, secret, r)
			if err != nil {
				slog.DebugContext(r.Context(), "rejected request", "path", r.URL.Path, "error", err)
				writeMessage(w, http.StatusForbidden, "Unauthorized")

				return
			}

			httplog.SetAttrs(r.Context(), slog.String("account_id", accountID))
			next.ServeHTTP(w, r.WithContext(withAccountID(r.Context(), accountID)))
		})
	}
}

func subjectFromRequest(parser *jwt.Parser, secret []byte, r *http.Request) (string, error) {
	raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		return "", errors.New("missing bearer token")
	}

	claims := &jwt.RegisteredClaims{}

	_, err := parser.ParseWithClaims(strings.TrimSpace(raw), claims, func(*jwt.Token) (any, error) {
		return secret, nil
	})
	if err != nil {
		return "", err
	}

	if claims.Subject == "" {
		return "", errNoSubject
	}

	return claims.Subject, nil
}
