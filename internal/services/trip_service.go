package services

import (
	"context"
	"time"

	"haulhub/internal/domain"
	"haulhub/internal/domain/models"
	"haulhub/internal/utils"

	"github.com/google/uuid"
)

// TripWriter covers trip creation and non-status field edits.
type TripWriter interface {
	Create(ctx context.Context, t models.Trip) error
	UpdateDetails(ctx context.Context, t models.Trip) error
}

// AuditLister reads a trip's audit trail.
type AuditLister interface {
	ListByTrip(ctx context.Context, tripID string) ([]models.AuditRecord, error)
}

// TripService handles the non-lifecycle trip operations: creation (always
// in Scheduled), detail edits (which never touch status), reads, and the
// audit-trail view.
type TripService struct {
	Trips interface {
		TripReader
		TripWriter
	}
	Audit AuditLister

	Now func() time.Time
}

// CreateInput is the caller-supplied portion of a new trip.
type CreateInput struct {
	OwnerID      string `json:"owner_id"`
	DispatcherID string `json:"dispatcher_id"`
	CarrierID    string `json:"carrier_id"`
	DriverID     string `json:"driver_id"`
	TruckID      string `json:"truck_id"`
	BrokerID     string `json:"broker_id"`

	PickupLocation   string `json:"pickup_location"`
	DeliveryLocation string `json:"delivery_location"`
	PickupDate       string `json:"pickup_date"`

	RateAmount    int64  `json:"rate_amount"`
	PaymentMethod string `json:"payment_method"`
}

// Create inserts a new trip in the initial lifecycle state.
func (s TripService) Create(ctx context.Context, in CreateInput) (models.Trip, error) {
	if in.OwnerID == "" {
		return models.Trip{}, domain.ValidationError{Field: "owner_id", Msg: "required"}
	}
	if _, err := utils.ParseDate(in.PickupDate); err != nil {
		return models.Trip{}, domain.ValidationError{Field: "pickup_date", Msg: "want YYYY-MM-DD", Err: err}
	}

	now := s.now()
	t := models.Trip{
		TripID:           uuid.NewString(),
		OwnerID:          in.OwnerID,
		DispatcherID:     in.DispatcherID,
		CarrierID:        in.CarrierID,
		DriverID:         in.DriverID,
		TruckID:          in.TruckID,
		BrokerID:         in.BrokerID,
		Status:           models.StatusScheduled,
		PickupLocation:   in.PickupLocation,
		DeliveryLocation: in.DeliveryLocation,
		PickupDate:       in.PickupDate,
		RateAmount:       in.RateAmount,
		PaymentMethod:    in.PaymentMethod,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.Trips.Create(ctx, t); err != nil {
		return models.Trip{}, err
	}
	return t, nil
}

// Get loads a single trip.
func (s TripService) Get(ctx context.Context, tripID string) (models.Trip, error) {
	return s.Trips.Get(ctx, tripID)
}

// UpdateInput holds the editable fields of an existing trip. Nil pointers
// leave the current value alone.
type UpdateInput struct {
	DispatcherID     *string    `json:"dispatcher_id"`
	CarrierID        *string    `json:"carrier_id"`
	DriverID         *string    `json:"driver_id"`
	TruckID          *string    `json:"truck_id"`
	BrokerID         *string    `json:"broker_id"`
	PickupLocation   *string    `json:"pickup_location"`
	DeliveryLocation *string    `json:"delivery_location"`
	PickupDate       *string    `json:"pickup_date"`
	ScheduledAt      *time.Time `json:"scheduled_at"`
	PickedUpAt       *time.Time `json:"picked_up_at"`
	DeliveredAt      *time.Time `json:"delivered_at"`
	RateAmount       *int64     `json:"rate_amount"`
	PaymentMethod    *string    `json:"payment_method"`
	InvoiceNumber    *string    `json:"invoice_number"`
}

// UpdateDetails patches the non-status fields of a trip. The current row is
// read first so absent fields keep their values; status is carried through
// untouched by the repository statement.
func (s TripService) UpdateDetails(ctx context.Context, tripID string, in UpdateInput) (models.Trip, error) {
	t, err := s.Trips.Get(ctx, tripID)
	if err != nil {
		return models.Trip{}, err
	}

	setStr := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	setStr(&t.DispatcherID, in.DispatcherID)
	setStr(&t.CarrierID, in.CarrierID)
	setStr(&t.DriverID, in.DriverID)
	setStr(&t.TruckID, in.TruckID)
	setStr(&t.BrokerID, in.BrokerID)
	setStr(&t.PickupLocation, in.PickupLocation)
	setStr(&t.DeliveryLocation, in.DeliveryLocation)
	if in.PickupDate != nil {
		if _, err := utils.ParseDate(*in.PickupDate); err != nil {
			return models.Trip{}, domain.ValidationError{Field: "pickup_date", Msg: "want YYYY-MM-DD", Err: err}
		}
		t.PickupDate = *in.PickupDate
	}
	if in.ScheduledAt != nil {
		t.ScheduledAt = in.ScheduledAt
	}
	if in.PickedUpAt != nil {
		t.PickedUpAt = in.PickedUpAt
	}
	if in.DeliveredAt != nil {
		t.DeliveredAt = in.DeliveredAt
	}
	if in.RateAmount != nil {
		t.RateAmount = *in.RateAmount
	}
	setStr(&t.PaymentMethod, in.PaymentMethod)
	setStr(&t.InvoiceNumber, in.InvoiceNumber)
	t.UpdatedAt = s.now()

	if err := s.Trips.UpdateDetails(ctx, t); err != nil {
		return models.Trip{}, err
	}
	return t, nil
}

// AuditTrail returns the trip's status history in sequence order.
func (s TripService) AuditTrail(ctx context.Context, tripID string) ([]models.AuditRecord, error) {
	if _, err := s.Trips.Get(ctx, tripID); err != nil {
		return nil, err
	}
	return s.Audit.ListByTrip(ctx, tripID)
}

func (s TripService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return utils.NowUTC()
}
