package models

// TripFilterSet describes one trip-listing query. OwnerID and the date
// range are mandatory; the discriminators are optional and empty when
// unset. It is never persisted.
type TripFilterSet struct {
	OwnerID   string
	StartDate string // YYYY-MM-DD inclusive
	EndDate   string // YYYY-MM-DD inclusive

	BrokerID string
	TruckID  string
	DriverID string
	Status   TripStatus
}

// Index identifiers for the fixed set of secondary indexes.
const (
	IndexOwnerDate  = "owner-date-index"
	IndexDriverDate = "driver-date-index"
	IndexBrokerDate = "broker-date-index"
)

// IndexChoice is the index selector's verdict for one filter set: which
// index to query, the partition key value to query it with, which filter
// attributes the index satisfies natively, which remain residual, and the
// expected number of items the native query will read. The mandatory owner
// scope is in Residual whenever the chosen index is not keyed on it.
type IndexChoice struct {
	Index          string
	PartitionKey   string
	KeyAttributes  []string
	Residual       []string
	EstimatedReads int
}
