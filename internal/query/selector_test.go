package query

import (
	"testing"

	"haulhub/internal/domain/models"

	"github.com/stretchr/testify/assert"
)

func baseFilters() models.TripFilterSet {
	return models.TripFilterSet{
		OwnerID:   "owner-1",
		StartDate: "2026-01-01",
		EndDate:   "2026-01-31",
	}
}

func TestSelectIndexDefaultsToOwnerDate(t *testing.T) {
	choice := SelectIndex(baseFilters())
	assert.Equal(t, models.IndexOwnerDate, choice.Index)
	assert.Equal(t, "owner-1", choice.PartitionKey)
	assert.Empty(t, choice.Residual)
	assert.Equal(t, 10000, choice.EstimatedReads)
}

func TestSelectIndexPrefersDriver(t *testing.T) {
	f := baseFilters()
	f.DriverID = "driver-9"
	choice := SelectIndex(f)
	assert.Equal(t, models.IndexDriverDate, choice.Index)
	assert.Equal(t, "driver-9", choice.PartitionKey)
	assert.Equal(t, 50, choice.EstimatedReads)
	assert.Contains(t, choice.Residual, "owner_id")
}

func TestSelectIndexBrokerWhenNoDriver(t *testing.T) {
	f := baseFilters()
	f.BrokerID = "broker-001"
	choice := SelectIndex(f)
	assert.Equal(t, models.IndexBrokerDate, choice.Index)
	assert.Equal(t, "broker-001", choice.PartitionKey)
	assert.Equal(t, 200, choice.EstimatedReads)
	assert.Contains(t, choice.Residual, "owner_id")
}

func TestSelectIndexDriverBeatsBroker(t *testing.T) {
	f := baseFilters()
	f.DriverID = "driver-9"
	f.BrokerID = "broker-001"
	choice := SelectIndex(f)
	assert.Equal(t, models.IndexDriverDate, choice.Index)
	assert.Contains(t, choice.Residual, "broker_id")
	assert.NotContains(t, choice.Residual, "driver_id")
}

func TestSelectIndexStatusAlwaysResidual(t *testing.T) {
	f := baseFilters()
	f.Status = models.StatusDelivered
	choice := SelectIndex(f)
	assert.Equal(t, models.IndexOwnerDate, choice.Index)
	assert.Equal(t, []string{"status"}, choice.Residual)
}

func TestSelectIndexTruckAlwaysResidual(t *testing.T) {
	f := baseFilters()
	f.TruckID = "truck-3"
	f.DriverID = "driver-9"
	choice := SelectIndex(f)
	assert.Equal(t, models.IndexDriverDate, choice.Index)
	assert.Contains(t, choice.Residual, "truck_id")
}

func TestSelectIndexDeterministicAndTotal(t *testing.T) {
	combos := []models.TripFilterSet{}
	for _, driver := range []string{"", "d1"} {
		for _, broker := range []string{"", "b1"} {
			for _, truck := range []string{"", "t1"} {
				for _, status := range []models.TripStatus{"", models.StatusPaid} {
					f := baseFilters()
					f.DriverID = driver
					f.BrokerID = broker
					f.TruckID = truck
					f.Status = status
					combos = append(combos, f)
				}
			}
		}
	}

	for _, f := range combos {
		first := SelectIndex(f)
		second := SelectIndex(f)
		assert.NotEmpty(t, first.Index, "selector must be total for %+v", f)
		assert.Equal(t, first, second, "selector must be deterministic for %+v", f)
	}
}

func TestMatchesResiduals(t *testing.T) {
	f := baseFilters()
	f.DriverID = "d1"
	f.BrokerID = "b1"
	f.Status = models.StatusDelivered
	choice := SelectIndex(f)

	match := models.Trip{OwnerID: "owner-1", DriverID: "d1", BrokerID: "b1", Status: models.StatusDelivered}
	assert.True(t, MatchesResiduals(match, f, choice))

	wrongBroker := match
	wrongBroker.BrokerID = "b2"
	assert.False(t, MatchesResiduals(wrongBroker, f, choice))

	wrongStatus := match
	wrongStatus.Status = models.StatusPaid
	assert.False(t, MatchesResiduals(wrongStatus, f, choice))
}

func TestMatchesResidualsEnforcesOwnerScopeOnDriverIndex(t *testing.T) {
	f := baseFilters()
	f.DriverID = "d1"
	choice := SelectIndex(f)
	assert.Equal(t, models.IndexDriverDate, choice.Index)

	mine := models.Trip{OwnerID: "owner-1", DriverID: "d1"}
	assert.True(t, MatchesResiduals(mine, f, choice))

	// Same driver hauling for a different owner must not pass the scope.
	foreign := models.Trip{OwnerID: "owner-2", DriverID: "d1"}
	assert.False(t, MatchesResiduals(foreign, f, choice))
}
