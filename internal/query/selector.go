// Package query holds the read-side policy for trip listings: picking the
// cheapest secondary index for a filter set and encoding page cursors.
package query

import "haulhub/internal/domain/models"

// Measured result-set sizes per partition, the basis for index priority.
// A driver partition is the most selective, the owner scope the least.
const (
	estReadsDriver = 50
	estReadsBroker = 200
	estReadsOwner  = 10000
)

// SelectIndex maps a filter set to the index with the lowest expected read
// count. Pure and total: the owner/date index is the fallback for every
// combination the discriminator rules don't claim. When both driver and
// broker are present the driver index wins and broker joins the residual
// set; status and truck are always residual because they have no index.
// A driver or broker partition can span owners, so whenever the owner
// scope is not the partition key it is enforced as a residual filter.
func SelectIndex(f models.TripFilterSet) models.IndexChoice {
	switch {
	case f.DriverID != "":
		return models.IndexChoice{
			Index:          models.IndexDriverDate,
			PartitionKey:   f.DriverID,
			KeyAttributes:  []string{"driver_id", "pickup_date"},
			Residual:       residuals(f, "driver_id"),
			EstimatedReads: estReadsDriver,
		}
	case f.BrokerID != "":
		return models.IndexChoice{
			Index:          models.IndexBrokerDate,
			PartitionKey:   f.BrokerID,
			KeyAttributes:  []string{"broker_id", "pickup_date"},
			Residual:       residuals(f, "broker_id"),
			EstimatedReads: estReadsBroker,
		}
	default:
		return models.IndexChoice{
			Index:          models.IndexOwnerDate,
			PartitionKey:   f.OwnerID,
			KeyAttributes:  []string{"owner_id", "pickup_date"},
			Residual:       residuals(f, "owner_id"),
			EstimatedReads: estReadsOwner,
		}
	}
}

// residuals lists the set filter attributes the chosen index does not
// satisfy natively, in a fixed order so IndexChoice stays deterministic.
// OwnerID is always set, so it appears here for every non-owner index.
func residuals(f models.TripFilterSet, keyed string) []string {
	out := []string{}
	if keyed != "owner_id" {
		out = append(out, "owner_id")
	}
	if f.DriverID != "" && keyed != "driver_id" {
		out = append(out, "driver_id")
	}
	if f.BrokerID != "" && keyed != "broker_id" {
		out = append(out, "broker_id")
	}
	if f.TruckID != "" {
		out = append(out, "truck_id")
	}
	if f.Status != "" {
		out = append(out, "status")
	}
	return out
}

// MatchesResiduals applies the residual predicates of a filter set to one
// trip. Key-condition attributes are assumed already satisfied by the
// native query and are not rechecked.
func MatchesResiduals(t models.Trip, f models.TripFilterSet, choice models.IndexChoice) bool {
	for _, attr := range choice.Residual {
		switch attr {
		case "owner_id":
			if t.OwnerID != f.OwnerID {
				return false
			}
		case "driver_id":
			if t.DriverID != f.DriverID {
				return false
			}
		case "broker_id":
			if t.BrokerID != f.BrokerID {
				return false
			}
		case "truck_id":
			if t.TruckID != f.TruckID {
				return false
			}
		case "status":
			if t.Status != f.Status {
				return false
			}
		}
	}
	return true
}
