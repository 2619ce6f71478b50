package services

import (
	"context"

	"haulhub/internal/domain"
	"haulhub/internal/domain/models"
	"haulhub/internal/query"
	"haulhub/internal/utils"
)

// IndexQuerier is the store's native page query over one secondary index.
type IndexQuerier interface {
	QueryByIndex(ctx context.Context, indexID, partitionKey, startDate, endDate string, limit int, afterKey string) ([]models.Trip, string, error)
}

// TripQueryService answers filtered trip listings one page at a time. Per
// call it picks an index, runs the native query, drops rows the residual
// filters reject, and hands back an opaque cursor. It performs no
// mutations, so a failed page is safe to retry with the same cursor.
type TripQueryService struct {
	Store IndexQuerier
}

// TripPage is one page of a listing. A page shorter than the requested
// size does not mean the listing is over; NextCursor being empty is the
// only end-of-results signal, because residual filtering can thin out any
// individual native page.
type TripPage struct {
	Trips      []models.Trip
	NextCursor string
	Index      string
}

const defaultPageSize = 25

// ListPage executes a single page of the listing described by filters. A
// caller-supplied cursor is honored only when it was issued under the index
// the current filters select; otherwise it is discarded and the listing
// restarts, since a continuation key from one index means nothing in
// another.
func (s TripQueryService) ListPage(ctx context.Context, filters models.TripFilterSet, pageSize int, cursor string) (TripPage, error) {
	if err := validateFilters(filters); err != nil {
		return TripPage{}, err
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	choice := query.SelectIndex(filters)

	afterKey := ""
	if c, ok := query.DecodeCursor(cursor); ok && c.Index == choice.Index {
		afterKey = c.Key
	}

	items, nextKey, err := s.Store.QueryByIndex(ctx, choice.Index, choice.PartitionKey,
		filters.StartDate, filters.EndDate, pageSize, afterKey)
	if err != nil {
		utils.LogEvent("", "trip_query", "page_failed", "index="+choice.Index)
		return TripPage{}, err
	}

	kept := []models.Trip{}
	for _, t := range items {
		if query.MatchesResiduals(t, filters, choice) {
			kept = append(kept, t)
		}
	}

	return TripPage{
		Trips:      kept,
		NextCursor: query.EncodeCursor(choice.Index, nextKey),
		Index:      choice.Index,
	}, nil
}

func validateFilters(f models.TripFilterSet) error {
	if f.OwnerID == "" {
		return domain.ValidationError{Field: "owner_id", Msg: "required"}
	}
	if f.StartDate == "" || f.EndDate == "" {
		return domain.ValidationError{Field: "date_range", Msg: "start_date and end_date are required"}
	}
	if _, err := utils.ParseDate(f.StartDate); err != nil {
		return domain.ValidationError{Field: "start_date", Msg: "want YYYY-MM-DD", Err: err}
	}
	if _, err := utils.ParseDate(f.EndDate); err != nil {
		return domain.ValidationError{Field: "end_date", Msg: "want YYYY-MM-DD", Err: err}
	}
	if f.EndDate < f.StartDate {
		return domain.ValidationError{Field: "date_range", Msg: "end_date before start_date"}
	}
	if f.Status != "" && !models.KnownStatus(f.Status) {
		return domain.ValidationError{Field: "status", Msg: "unknown status"}
	}
	return nil
}
