package models

import "time"

// TripStatus is the lifecycle state of a trip. The zero value is not a
// valid status; trips are created as StatusScheduled.
type TripStatus string

const (
	StatusScheduled     TripStatus = "Scheduled"
	StatusPickedUp      TripStatus = "PickedUp"
	StatusInTransit     TripStatus = "InTransit"
	StatusDelivered     TripStatus = "Delivered"
	StatusWaitingReview TripStatus = "WaitingReview"
	StatusReadyToPay    TripStatus = "ReadyToPay"
	StatusPaid          TripStatus = "Paid"
	StatusCanceled      TripStatus = "Canceled"
)

// AllStatuses lists every known lifecycle state.
var AllStatuses = []TripStatus{
	StatusScheduled,
	StatusPickedUp,
	StatusInTransit,
	StatusDelivered,
	StatusWaitingReview,
	StatusReadyToPay,
	StatusPaid,
	StatusCanceled,
}

// KnownStatus reports whether s names a state in the lifecycle.
func KnownStatus(s TripStatus) bool {
	for _, st := range AllStatuses {
		if st == s {
			return true
		}
	}
	return false
}

// Trip is a dispatch order. Status is only ever changed through the
// workflow service; every other field may be edited directly.
type Trip struct {
	TripID       string     `json:"trip_id"`
	OwnerID      string     `json:"owner_id"`
	DispatcherID string     `json:"dispatcher_id"`
	CarrierID    string     `json:"carrier_id"`
	DriverID     string     `json:"driver_id"`
	TruckID      string     `json:"truck_id"`
	BrokerID     string     `json:"broker_id"`
	Status       TripStatus `json:"status"`

	PickupLocation   string `json:"pickup_location"`
	DeliveryLocation string `json:"delivery_location"`

	PickupDate  string     `json:"pickup_date"` // YYYY-MM-DD, sort key for listings
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	PickedUpAt  *time.Time `json:"picked_up_at,omitempty"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`

	RateAmount    int64  `json:"rate_amount"` // cents
	PaymentMethod string `json:"payment_method,omitempty"`
	InvoiceNumber string `json:"invoice_number,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuditRecord is one immutable entry in a trip's status-change trail,
// keyed by (TripID, Seq). RequestID makes re-appends idempotent.
type AuditRecord struct {
	TripID     string     `json:"trip_id"`
	Seq        int64      `json:"seq"`
	FromStatus TripStatus `json:"from_status"`
	ToStatus   TripStatus `json:"to_status"`
	Actor      string     `json:"actor"`
	RequestID  string     `json:"request_id"`
	ChangedAt  time.Time  `json:"changed_at"`
}
