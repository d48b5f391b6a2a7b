package audit

import (
	"context"
	"database/sql"
	"time"
)

// PostgresRepo persists events via database/sql (pgx stdlib driver).
//
// Expected schema:
//
//	CREATE TABLE auth_events (
//	    id         TEXT PRIMARY KEY,
//	    outcome    TEXT NOT NULL,
//	    reason     TEXT NOT NULL DEFAULT '',
//	    tenant_id  TEXT NOT NULL DEFAULT '',
//	    user_uuid  TEXT NOT NULL DEFAULT '',
//	    session_id TEXT NOT NULL DEFAULT '',
//	    path       TEXT NOT NULL DEFAULT '',
//	    ip_address TEXT NOT NULL DEFAULT '',
//	    created_at TIMESTAMPTZ NOT NULL
//	);
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

func (r *PostgresRepo) Append(ctx context.Context, e Event) error {
	const q = `
INSERT INTO auth_events (id, outcome, reason, tenant_id, user_uuid, session_id, path, ip_address, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.ExecContext(ctx, q,
		e.ID, string(e.Outcome), e.Reason, e.TenantID, e.UserUUID, e.SessionID, e.Path, e.IPAddress, e.CreatedAt)
	return err
}

func (r *PostgresRepo) ListEvents(ctx context.Context, tenantID string, from, to time.Time) ([]Event, error) {
	const q = `
SELECT id, outcome, reason, tenant_id, user_uuid, session_id, path, ip_address, created_at
FROM auth_events
WHERE ($1 = '' OR tenant_id = $1) AND created_at >= $2 AND created_at < $3
ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, q, tenantID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		var outcome string
		if err := rows.Scan(&e.ID, &outcome, &e.Reason, &e.TenantID, &e.UserUUID, &e.SessionID, &e.Path, &e.IPAddress, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Outcome = Outcome(outcome)
		out = append(out, e)
	}
	return out, rows.Err()
}
