package repositories

import (
	"context"
	"database/sql"
	"errors"

	intconfig "haulhub/internal/config"
	"haulhub/internal/domain"
	"haulhub/internal/domain/models"

	"github.com/go-sql-driver/mysql"
)

// AuditRepository owns the trip_audit table: append-only, primary key
// (trip_id, seq), unique key (trip_id, request_id). Rows are never updated
// or deleted; the table is the compliance trail.
type AuditRepository struct {
	DB *sql.DB
}

func (r AuditRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const mysqlDupEntry = 1062

// Append durably writes one audit record, assigning the next sequence
// number for the trip. Re-appending with a request id already recorded for
// the trip is a no-op success, which is what makes transition retries safe
// after an AuditWriteFailed or a timeout.
func (r AuditRepository) Append(ctx context.Context, rec models.AuditRecord) error {
	db := r.db()

	var existing int64
	err := db.QueryRowContext(ctx,
		`SELECT seq FROM trip_audit WHERE trip_id = ? AND request_id = ?`,
		rec.TripID, rec.RequestID,
	).Scan(&existing)
	if err == nil {
		return nil
	}
	if err != sql.ErrNoRows {
		return domain.StoreUnavailableError{Op: "audit lookup", Err: err}
	}

	// Two appenders for the same trip can race on MAX(seq)+1; one loses on
	// the primary key and takes a second attempt with a fresh sequence.
	for attempt := 0; attempt < 2; attempt++ {
		_, err = db.ExecContext(ctx, `
			INSERT INTO trip_audit (trip_id, seq, from_status, to_status, actor, request_id, changed_at)
			SELECT ?, COALESCE(MAX(seq), 0) + 1, ?, ?, ?, ?, ?
			FROM trip_audit WHERE trip_id = ?`,
			rec.TripID, string(rec.FromStatus), string(rec.ToStatus), rec.Actor, rec.RequestID, rec.ChangedAt,
			rec.TripID,
		)
		if err == nil {
			return nil
		}
		var myErr *mysql.MySQLError
		if !errors.As(err, &myErr) || myErr.Number != mysqlDupEntry {
			return domain.StoreUnavailableError{Op: "audit append", Err: err}
		}
		// A duplicate on (trip_id, request_id) means a concurrent retry of
		// this same request already landed the record.
		var seq int64
		lookupErr := db.QueryRowContext(ctx,
			`SELECT seq FROM trip_audit WHERE trip_id = ? AND request_id = ?`,
			rec.TripID, rec.RequestID,
		).Scan(&seq)
		if lookupErr == nil {
			return nil
		}
		if lookupErr != sql.ErrNoRows {
			return domain.StoreUnavailableError{Op: "audit lookup", Err: lookupErr}
		}
	}
	return domain.StoreUnavailableError{Op: "audit append", Err: err}
}

// ListByTrip returns a trip's full audit trail in sequence order.
func (r AuditRepository) ListByTrip(ctx context.Context, tripID string) ([]models.AuditRecord, error) {
	rows, err := r.db().QueryContext(ctx, `
		SELECT trip_id, seq, from_status, to_status, actor, request_id, changed_at
		FROM trip_audit WHERE trip_id = ? ORDER BY seq ASC`, tripID)
	if err != nil {
		return nil, domain.StoreUnavailableError{Op: "audit list", Err: err}
	}
	defer rows.Close()

	out := []models.AuditRecord{}
	for rows.Next() {
		var rec models.AuditRecord
		var from, to string
		if err := rows.Scan(&rec.TripID, &rec.Seq, &from, &to, &rec.Actor, &rec.RequestID, &rec.ChangedAt); err != nil {
			return nil, domain.StoreUnavailableError{Op: "audit list scan", Err: err}
		}
		rec.FromStatus = models.TripStatus(from)
		rec.ToStatus = models.TripStatus(to)
		out = append(out, rec)
	}
	return out, rows.Err()
}
