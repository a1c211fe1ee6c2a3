package api

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	idempotencyKeyHeader   = "Idempotency-Key"
	idempotentReplayHeader = "Idempotent-Replayed"
	idempotencyPrefix      = "idempotency:v1:"
	inProgressMarker       = "__in_progress__"
	idempotencyOpTimeout   = 2 * time.Second
)

type storedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        string `json:"body"`
	RequestHash string `json:"request_hash"`
}

// Idempotency replays the stored response for a repeated Idempotency-Key on
// mutating requests. Keys are scoped to the authenticated account and route,
// so it must run behind Authenticate. Requests without the header pass
// through untouched.
//
// Only final answers are stored. A 5xx, a response carrying Retry-After or a
// panic releases the key so the client can retry with it. Reusing a key with
// a different body is answered with 422.
func Idempotency(cache *redis.Client, ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get(idempotencyKeyHeader)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
			if err != nil {
				writeMessage(w, http.StatusBadRequest, "invalid body")
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			requestHash := hashBody(body)

			cacheKey := idempotencyPrefix + mustAccountID(r) + ":" + r.URL.Path + ":" + key
			log := slog.With("idempotency_key", key, "path", r.URL.Path)

			ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), idempotencyOpTimeout)
			defer cancel()

			cached, err := cache.Get(ctx, cacheKey).Result()
			switch {
			case err == nil:
				replay(w, cached, requestHash, log)
				return
			case !errors.Is(err, redis.Nil):
				log.Error("idempotency lookup failed", "error", err)
				writeMessage(w, http.StatusServiceUnavailable, "Service temporarily unavailable")

				return
			}

			reserved, err := cache.SetNX(ctx, cacheKey, inProgressMarker, ttl).Result()
			if err != nil {
				log.Error("idempotency reservation failed", "error", err)
				writeMessage(w, http.StatusServiceUnavailable, "Service temporarily unavailable")

				return
			}

			if !reserved {
				writeMessage(w, http.StatusConflict, "Duplicate request is being processed")
				return
			}

			release := func() {
				delCtx, delCancel := context.WithTimeout(context.WithoutCancel(r.Context()), idempotencyOpTimeout)
				defer delCancel()

				err := cache.Del(delCtx, cacheKey).Err()
				if err != nil {
					log.Error("failed to release idempotency key", "error", err)
				}
			}

			completed := false

			// Runs while a panic unwinds too; the panic itself keeps going.
			defer func() {
				if !completed {
					release()
				}
			}()

			cw := &capturingWriter{ResponseWriter: w}
			next.ServeHTTP(cw, r)

			completed = true

			if !isFinal(cw) {
				release()
				return
			}

			payload, err := json.Marshal(storedResponse{
				Status:      cw.statusCode(),
				ContentType: cw.Header().Get("Content-Type"),
				Body:        cw.body.String(),
				RequestHash: requestHash,
			})
			if err != nil {
				log.Error("failed to encode idempotent response", "error", err)
				release()

				return
			}

			persistCtx, persistCancel := context.WithTimeout(context.WithoutCancel(r.Context()), idempotencyOpTimeout)
			defer persistCancel()

			err = cache.Set(persistCtx, cacheKey, payload, ttl).Err()
			if err != nil {
				log.Error("failed to persist idempotent response", "error", err)
				release()
			}
		})
	}
}

// isFinal reports whether a response may be replayed for later requests.
func isFinal(cw *capturingWriter) bool {
	return cw.statusCode() < http.StatusInternalServerError && cw.Header().Get("Retry-After") == ""
}

func hashBody(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

func replay(w http.ResponseWriter, cached, requestHash string, log *slog.Logger) {
	if strings.HasPrefix(cached, inProgressMarker) {
		writeMessage(w, http.StatusConflict, "Duplicate request is being processed")
		return
	}

	var stored storedResponse

	err := json.Unmarshal([]byte(cached), &stored)
	if err != nil {
		log.Warn("failed to decode stored idempotent response", "error", err)
		writeMessage(w, http.StatusConflict, "Duplicate request")

		return
	}

	if stored.RequestHash != requestHash {
		writeMessage(w, http.StatusUnprocessableEntity, "Idempotency-Key was already used with a different request")
		return
	}

	if stored.ContentType != "" {
		w.Header().Set("Content-Type", stored.ContentType)
	}

	w.Header().Set(idempotentReplayHeader, "true")
	w.WriteHeader(stored.Status)
	_, _ = w.Write([]byte(stored.Body))
}

type capturingWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (c *capturingWriter) WriteHeader(code int) {
	if c.status == 0 {
		c.status = code
	}

	c.ResponseWriter.WriteHeader(code)
}

func (c *capturingWriter) Write(p []byte) (int, error) {
	if c.status == 0 {
		c.status = http.StatusOK
	}

	c.body.Write(p)

	return c.ResponseWriter.Write(p)
}

func (c *capturingWriter) statusCode() int {
	if c.status == 0 {
		return http.StatusOK
	}

	return c.status
}
