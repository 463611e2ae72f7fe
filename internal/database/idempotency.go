package database

import (
	"context"
	"time"
)

// GetIdempotencyKey returns an entry newer than since. A zero StatusCode means
// the first request is still running.
func (q *Queries) GetIdempotencyKey(ctx context.Context, key string, userID int64, since time.Time) (IdempotencyKey, error) {
	var k IdempotencyKey
	err := q.get(ctx, &k, `SELECT idem_key, user_id, method, path, status_code, response_body, created_at
		FROM idempotency_keys WHERE idem_key = ? AND user_id = ? AND created_at > ?`, key, userID, since)
	return k, err
}

// ReserveIdempotencyKey inserts a pending entry (status 0, empty body). A key
// already held by the same user surfaces as a unique violation.
func (q *Queries) ReserveIdempotencyKey(ctx context.Context, k IdempotencyKey) error {
	_, err := q.exec(ctx, `INSERT INTO idempotency_keys (idem_key, user_id, method, path, status_code, response_body, created_at)
		VALUES (?, ?, ?, ?, 0, '', ?)`, k.Key, k.UserID, k.Method, k.Path, k.CreatedAt)
	return err
}

// CompleteIdempotencyKey stores the response of a reserved key.
func (q *Queries) CompleteIdempotencyKey(ctx context.Context, key string, userID int64, status int, body string) error {
	n, err := q.exec(ctx, `UPDATE idempotency_keys SET status_code = ?, response_body = ?
		WHERE idem_key = ? AND user_id = ? AND status_code = 0`, status, body, key, userID)
	if err == nil && n == 0 {
		return ErrNoRows
	}
	return err
}

// ReleaseIdempotencyKey drops a pending entry so the request can be retried.
func (q *Queries) ReleaseIdempotencyKey(ctx context.Context, key string, userID int64) error {
	_, err := q.exec(ctx, `DELETE FROM idempotency_keys WHERE idem_key = ? AND user_id = ? AND status_code = 0`, key, userID)
	return err
}

// DeleteExpiredIdempotencyKeys removes entries created before cutoff.
func (q *Queries) DeleteExpiredIdempotencyKeys(ctx context.Context, cutoff time.Time) (int64, error) {
	return q.exec(ctx, `DELETE FROM idempotency_keys WHERE created_at < ?`, cutoff)
}
