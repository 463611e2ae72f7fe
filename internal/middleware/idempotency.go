package middleware

import (
	"bytes"
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/dinepos/api/internal/database"
)

const (
	IdempotencyKeyHeader = "Idempotency-Key"
	IdempotencyKeyTTL    = 24 * time.Hour
)

// IdempotencyStore persists replayable responses. Reserve must fail with a
// unique violation when the user already holds the key.
// Satisfied by *database.Queries.
type IdempotencyStore interface {
	GetIdempotencyKey(ctx context.Context, key string, userID int64, since time.Time) (database.IdempotencyKey, error)
	ReserveIdempotencyKey(ctx context.Context, k database.IdempotencyKey) error
	CompleteIdempotencyKey(ctx context.Context, key string, userID int64, status int, body string) error
	ReleaseIdempotencyKey(ctx context.Context, key string, userID int64) error
	DeleteExpiredIdempotencyKeys(ctx context.Context, cutoff time.Time) (int64, error)
}

type captureWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (w *captureWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *captureWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response of a mutating request sent again
// with the same Idempotency-Key by the same user. The key is reserved before
// the handler runs, so an overlapping duplicate gets 409 instead of running
// twice. Only 2xx responses are kept; any other outcome releases the key so a
// rejected request can be retried after fixing its input.
// Must run after Authenticate.
func Idempotency(store IdempotencyStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost && r.Method != http.MethodPut && r.Method != http.MethodPatch {
				next.ServeHTTP(w, r)
				return
			}
			key := r.Header.Get(IdempotencyKeyHeader)
			claims := ClaimsFromContext(r.Context())
			if key == "" || claims == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			now := time.Now().UTC()
			cutoff := now.Add(-IdempotencyKeyTTL)
			if _, err := store.DeleteExpiredIdempotencyKeys(ctx, cutoff); err != nil {
				log.Printf("ERROR: purge idempotency keys: %v", err)
			}

			err := store.ReserveIdempotencyKey(ctx, database.IdempotencyKey{
				Key:       key,
				UserID:    claims.UserID,
				Method:    r.Method,
				Path:      r.URL.Path,
				CreatedAt: now,
			})
			if err != nil {
				if database.IsUniqueViolation(err) {
					replay(w, r, store, key, claims.UserID, cutoff)
					return
				}
				log.Printf("ERROR: reserve idempotency key: %v", err)
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
				return
			}

			// The request context may already be cancelled by the time the
			// outcome is recorded.
			bg := context.WithoutCancel(ctx)
			completed := false
			defer func() {
				if completed {
					return
				}
				if err := store.ReleaseIdempotencyKey(bg, key, claims.UserID); err != nil {
					log.Printf("ERROR: release idempotency key: %v", err)
				}
			}()

			cw := &captureWriter{ResponseWriter: w}
			next.ServeHTTP(cw, r)

			status := cw.status
			if status == 0 {
				status = http.StatusOK
			}
			if status < 200 || status >= 300 {
				return
			}
			if err := store.CompleteIdempotencyKey(bg, key, claims.UserID, status, cw.body.String()); err != nil {
				log.Printf("ERROR: save idempotency key: %v", err)
				return
			}
			completed = true
		})
	}
}

func replay(w http.ResponseWriter, r *http.Request, store IdempotencyStore, key string, userID int64, cutoff time.Time) {
	existing, err := store.GetIdempotencyKey(r.Context(), key, userID, cutoff)
	if err != nil {
		if errors.Is(err, database.ErrNoRows) {
			// Released or expired between the reserve and this read.
			w.Header().Set("Retry-After", "1")
			writeJSON(w, http.StatusConflict, map[string]string{"error": "request with this idempotency key is in progress"})
			return
		}
		log.Printf("ERROR: idempotency lookup: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if existing.Method != r.Method || existing.Path != r.URL.Path {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "idempotency key was used for a different request"})
		return
	}
	if existing.StatusCode == 0 {
		w.Header().Set("Retry-After", "1")
		writeJSON(w, http.StatusConflict, map[string]string{"error": "request with this idempotency key is in progress"})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Idempotency-Replayed", "true")
	w.WriteHeader(existing.StatusCode)
	w.Write([]byte(existing.ResponseBody))
}
