package handlers

import (
	"net/http"
	"strconv"

	"haulhub/internal/domain/models"
	"haulhub/internal/http/middleware"
	"haulhub/internal/services"
	"haulhub/internal/utils"

	"github.com/gin-gonic/gin"
)

// TripHandlers wires the trip endpoints to their services.
type TripHandlers struct {
	Trips    services.TripService
	Workflow services.WorkflowService
	Query    services.TripQueryService
}

type tripView struct {
	models.Trip
	BrokerName string `json:"broker_name,omitempty"`
}

func viewOf(t models.Trip) tripView {
	v := tripView{Trip: t}
	if t.BrokerID != "" {
		v.BrokerName = models.BrokerName(t.BrokerID)
	}
	return v
}

// GET /api/trips
func (h TripHandlers) List(c *gin.Context) {
	owner := c.Query("owner_id")
	if owner == "" {
		owner = middleware.GetOwnerID(c)
	}
	filters := models.TripFilterSet{
		OwnerID:   owner,
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
		BrokerID:  c.Query("broker_id"),
		TruckID:   c.Query("truck_id"),
		DriverID:  c.Query("driver_id"),
		Status:    models.TripStatus(c.Query("status")),
	}
	pageSize := 0
	if raw := c.Query("page_size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(c, http.StatusBadRequest, "validation_error", "page_size must be a positive integer")
			return
		}
		if n > 1000 {
			n = 1000
		}
		pageSize = n
	}

	page, err := h.Query.ListPage(c.Request.Context(), filters, pageSize, c.Query("cursor"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	views := make([]tripView, 0, len(page.Trips))
	for _, t := range page.Trips {
		views = append(views, viewOf(t))
	}
	c.JSON(http.StatusOK, gin.H{
		"trips":       views,
		"next_cursor": page.NextCursor,
	})
}

// GET /api/trips/:id
func (h TripHandlers) Get(c *gin.Context) {
	t, err := h.Trips.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewOf(t))
}

// POST /api/trips
func (h TripHandlers) Create(c *gin.Context) {
	var in services.CreateInput
	if !BindJSONOrError(c, &in) {
		return
	}
	if in.OwnerID == "" {
		in.OwnerID = middleware.GetOwnerID(c)
	}

	t, err := h.Trips.Create(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "trips", "created", "trip "+t.TripID)
	c.JSON(http.StatusCreated, viewOf(t))
}

// PUT /api/trips/:id
func (h TripHandlers) Update(c *gin.Context) {
	var in services.UpdateInput
	if !BindJSONOrError(c, &in) {
		return
	}

	t, err := h.Trips.UpdateDetails(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewOf(t))
}

type transitionBody struct {
	TargetStatus string `json:"target_status"`
	RequestID    string `json:"request_id"`
}

// POST /api/trips/:id/status
//
// Clients that saw audit_write_failed (or timed out) must resend the same
// request_id; the audit append is idempotent on it. Absent an explicit
// request_id the middleware's request id is used, which makes a blind
// resend a distinct attempt.
func (h TripHandlers) Transition(c *gin.Context) {
	var body transitionBody
	if !BindJSONOrError(c, &body) {
		return
	}
	reqID := body.RequestID
	if reqID == "" {
		reqID = middleware.GetRequestID(c)
	}

	t, err := h.Workflow.RequestTransition(c.Request.Context(), services.TransitionRequest{
		TripID:    c.Param("id"),
		Target:    models.TripStatus(body.TargetStatus),
		Actor:     middleware.GetActor(c),
		RequestID: reqID,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	utils.LogEvent(reqID, "trips", "transition", "trip "+t.TripID+" now "+string(t.Status))
	c.JSON(http.StatusOK, viewOf(t))
}

// GET /api/trips/:id/audit
func (h TripHandlers) Audit(c *gin.Context) {
	trail, err := h.Trips.AuditTrail(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"audit": trail})
}
