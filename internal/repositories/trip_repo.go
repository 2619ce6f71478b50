package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	intconfig "haulhub/internal/config"
	"haulhub/internal/domain"
	"haulhub/internal/domain/models"
)

// ErrConditionFailed is returned by ConditionalUpdateStatus when the guard
// status no longer matches, meaning another writer got there first.
var ErrConditionFailed = errors.New("conditional update: status changed")

// TripRepository is the MySQL adapter for the trips table. The three
// listing access paths are composite indexes (owner_id, pickup_date),
// (driver_id, pickup_date) and (broker_id, pickup_date); which one a query
// uses is decided upstream by the index selector, never here.
type TripRepository struct {
	DB *sql.DB
}

func (r TripRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const tripColumns = `trip_id, owner_id, dispatcher_id, carrier_id, driver_id, truck_id, broker_id,
		status, pickup_location, delivery_location, pickup_date,
		scheduled_at, picked_up_at, delivered_at,
		rate_amount, payment_method, invoice_number, created_at, updated_at`

func scanTrip(row interface{ Scan(dest ...any) error }) (models.Trip, error) {
	var t models.Trip
	var status string
	err := row.Scan(
		&t.TripID, &t.OwnerID, &t.DispatcherID, &t.CarrierID, &t.DriverID, &t.TruckID, &t.BrokerID,
		&status, &t.PickupLocation, &t.DeliveryLocation, &t.PickupDate,
		&t.ScheduledAt, &t.PickedUpAt, &t.DeliveredAt,
		&t.RateAmount, &t.PaymentMethod, &t.InvoiceNumber, &t.CreatedAt, &t.UpdatedAt,
	)
	t.Status = models.TripStatus(status)
	return t, err
}

// Get loads one trip by id.
func (r TripRepository) Get(ctx context.Context, tripID string) (models.Trip, error) {
	row := r.db().QueryRowContext(ctx, `SELECT `+tripColumns+` FROM trips WHERE trip_id = ?`, tripID)
	t, err := scanTrip(row)
	if err == sql.ErrNoRows {
		return models.Trip{}, domain.NotFoundError{Resource: "trip"}
	}
	if err != nil {
		return models.Trip{}, domain.StoreUnavailableError{Op: "trip get", Err: err}
	}
	return t, nil
}

// Create inserts a new trip. The caller is responsible for having set the
// initial status; the row is written exactly as given.
func (r TripRepository) Create(ctx context.Context, t models.Trip) error {
	_, err := r.db().ExecContext(ctx, `
		INSERT INTO trips (`+tripColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TripID, t.OwnerID, t.DispatcherID, t.CarrierID, t.DriverID, t.TruckID, t.BrokerID,
		string(t.Status), t.PickupLocation, t.DeliveryLocation, t.PickupDate,
		t.ScheduledAt, t.PickedUpAt, t.DeliveredAt,
		t.RateAmount, t.PaymentMethod, t.InvoiceNumber, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return domain.StoreUnavailableError{Op: "trip create", Err: err}
	}
	return nil
}

// UpdateDetails rewrites the editable trip fields. Status is deliberately
// absent from the statement; it only moves through the workflow service.
func (r TripRepository) UpdateDetails(ctx context.Context, t models.Trip) error {
	res, err := r.db().ExecContext(ctx, `
		UPDATE trips SET
			dispatcher_id = ?, carrier_id = ?, driver_id = ?, truck_id = ?, broker_id = ?,
			pickup_location = ?, delivery_location = ?, pickup_date = ?,
			scheduled_at = ?, picked_up_at = ?, delivered_at = ?,
			rate_amount = ?, payment_method = ?, invoice_number = ?, updated_at = ?
		WHERE trip_id = ?`,
		t.DispatcherID, t.CarrierID, t.DriverID, t.TruckID, t.BrokerID,
		t.PickupLocation, t.DeliveryLocation, t.PickupDate,
		t.ScheduledAt, t.PickedUpAt, t.DeliveredAt,
		t.RateAmount, t.PaymentMethod, t.InvoiceNumber, t.UpdatedAt,
		t.TripID,
	)
	if err != nil {
		return domain.StoreUnavailableError{Op: "trip update", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.StoreUnavailableError{Op: "trip update", Err: err}
	}
	if n == 0 {
		return domain.NotFoundError{Resource: "trip"}
	}
	return nil
}

// ConditionalUpdateStatus sets the trip's status only while it still equals
// expected. Trips are never hard-deleted, so zero rows affected means the
// status moved under us, not that the trip vanished.
func (r TripRepository) ConditionalUpdateStatus(ctx context.Context, tripID string, expected, next models.TripStatus) error {
	res, err := r.db().ExecContext(ctx, `
		UPDATE trips SET status = ?, updated_at = NOW()
		WHERE trip_id = ? AND status = ?`,
		string(next), tripID, string(expected),
	)
	if err != nil {
		return domain.StoreUnavailableError{Op: "status update", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.StoreUnavailableError{Op: "status update", Err: err}
	}
	if n == 0 {
		return ErrConditionFailed
	}
	return nil
}

// QueryByIndex runs one native page against the chosen access path:
// partition key equality, pickup_date range, keyset continuation ordered by
// (pickup_date, trip_id). afterKey is the opaque key a previous call handed
// back; nextKey is "" when the store has no further pages.
func (r TripRepository) QueryByIndex(ctx context.Context, indexID, partitionKey, startDate, endDate string, limit int, afterKey string) ([]models.Trip, string, error) {
	keyCol, err := indexKeyColumn(indexID)
	if err != nil {
		return nil, "", err
	}
	if limit <= 0 {
		limit = 25
	}

	where := []string{keyCol + " = ?", "pickup_date >= ?", "pickup_date <= ?"}
	args := []any{partitionKey, startDate, endDate}

	if afterKey != "" {
		afterDate, afterID, ok := splitPageKey(afterKey)
		if !ok {
			return nil, "", domain.ValidationError{Field: "cursor", Msg: "malformed page key"}
		}
		where = append(where, "(pickup_date > ? OR (pickup_date = ? AND trip_id > ?))")
		args = append(args, afterDate, afterDate, afterID)
	}

	// Fetch one extra row to learn whether another native page exists.
	args = append(args, limit+1)
	q := `SELECT ` + tripColumns + ` FROM trips WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY pickup_date ASC, trip_id ASC LIMIT ?`

	rows, err := r.db().QueryContext(ctx, q, args...)
	if err != nil {
		return nil, "", domain.StoreUnavailableError{Op: "trip query", Err: err}
	}
	defer rows.Close()

	out := []models.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, "", domain.StoreUnavailableError{Op: "trip query scan", Err: err}
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, "", domain.StoreUnavailableError{Op: "trip query", Err: err}
	}

	nextKey := ""
	if len(out) > limit {
		out = out[:limit]
		last := out[len(out)-1]
		nextKey = joinPageKey(last.PickupDate, last.TripID)
	}
	return out, nextKey, nil
}

func indexKeyColumn(indexID string) (string, error) {
	switch indexID {
	case models.IndexOwnerDate:
		return "owner_id", nil
	case models.IndexDriverDate:
		return "driver_id", nil
	case models.IndexBrokerDate:
		return "broker_id", nil
	default:
		return "", domain.ValidationError{Field: "index", Msg: fmt.Sprintf("unknown index %q", indexID)}
	}
}

func joinPageKey(date, tripID string) string {
	return date + "|" + tripID
}

func splitPageKey(key string) (date, tripID string, ok bool) {
	i := strings.IndexByte(key, '|')
	if i <= 0 || i == len(key)-1 {
		return "", "", false
	}
	return key[:i], key[i+1:], true
}
