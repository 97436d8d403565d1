package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"restore-scheduler/internal/domain/registration"
	reqdto "restore-scheduler/internal/handler/dto/request"
	resdto "restore-scheduler/internal/handler/dto/response"
	"restore-scheduler/internal/handler/httperr"
	"restore-scheduler/internal/handler/middleware"
	"restore-scheduler/internal/infra"
	"restore-scheduler/internal/pkg/errs"
	"restore-scheduler/internal/usecase/commands"
	"restore-scheduler/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RegistrationHandler struct {
	commands   commands.RegistrationCommands
	regQueries queries.RegistrationQueries
}

func NewRegistrationHandler(cmds commands.RegistrationCommands, regQueries queries.RegistrationQueries) *RegistrationHandler {
	return &RegistrationHandler{
		commands:   cmds,
		regQueries: regQueries,
	}
}

// @Summary Submit a registration
// @Description Submit a counselling session booking request
// @Tags registrations
// @Accept json
// @Produce json
// @Param request body reqdto.SubmitRegistrationRequest true "Registration request"
// @Success 201 {object} resdto.SubmissionResponse
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /registrations [post]
func (h *RegistrationHandler) Submit(c *gin.Context) {
	var req reqdto.SubmitRegistrationRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	params, err := req.ToParams()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	view, err := h.commands.Submit(c.Request.Context(), params)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrDomainValidation):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Validation failed", nil)
		case errors.Is(err, commands.ErrSlotConflict):
			httperr.AbortWithError(c, http.StatusConflict, err, "Requested slots are no longer available", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.SubmissionFromView(view, submissionMessage(view.Status)))
}

// @Summary Get registration
// @Description Get registration by ID
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Registration ID"
// @Success 200 {object} resdto.RegistrationResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /registrations/{id} [get]
func (h *RegistrationHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	view, err := h.regQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondNotFoundOrInternal(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromRegistrationView(view))
}

// @Summary List registrations
// @Description List registrations filtered by creation date range and status
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param from query string false "Start of range (RFC 3339)"
// @Param to query string false "End of range (RFC 3339)"
// @Param status query string false "Status filter"
// @Success 200 {array} resdto.RegistrationListResponse
// @Failure 400 {object} httperr.Response
// @Router /registrations [get]
func (h *RegistrationHandler) List(c *gin.Context) {
	filter, ok := h.parseListFilter(c)
	if !ok {
		return
	}

	items, err := h.regQueries.List(c.Request.Context(), filter)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, toListResponse(items))
}

// @Summary List anomalous registrations
// @Description List scheduled registrations holding no assignments
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.RegistrationListResponse
// @Router /registrations/anomalies [get]
func (h *RegistrationHandler) ListAnomalies(c *gin.Context) {
	items, err := h.regQueries.ListAnomalies(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, toListResponse(items))
}

// @Summary Reassign registration slots
// @Description Replace a registration's assignments with a new set
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Registration ID"
// @Param request body reqdto.ReassignRequest true "Replacement assignments and reason"
// @Success 200 {object} resdto.RegistrationResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /registrations/{id}/reassignments [post]
func (h *RegistrationHandler) Reassign(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req reqdto.ReassignRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	slots, reason, err := req.ToDomain()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid slot format", nil)
		return
	}

	view, err := h.commands.Reassign(c.Request.Context(), id, slots, reason)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrDomainValidation):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Reason and assignments are required", nil)
		case errors.Is(err, commands.ErrRegistrationNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Registration not found", nil)
		case errors.Is(err, commands.ErrSlotConflict):
			// Distinguishable from other failures so the caller can
			// render a pick-another-slot flow.
			httperr.AbortWithError(c, http.StatusConflict, err, "One or more slots are already occupied", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	h.auditAdminAction(c, "registration reassigned", id)
	c.JSON(http.StatusOK, resdto.FromRegistrationView(view))
}

// @Summary Override registration status
// @Description Set a registration's status directly
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Registration ID"
// @Param request body reqdto.UpdateStatusRequest true "Target status"
// @Success 200 {object} resdto.RegistrationResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /registrations/{id}/status [patch]
func (h *RegistrationHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req reqdto.UpdateStatusRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	view, err := h.commands.SetStatus(c.Request.Context(), id, registration.Status(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrDomainValidation):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid status value", nil)
		case errors.Is(err, commands.ErrRegistrationNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Registration not found", nil)
		case errors.Is(err, commands.ErrSlotConflict):
			httperr.AbortWithError(c, http.StatusConflict, err, "One or more slots are already occupied", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	h.auditAdminAction(c, "registration status overridden", id)
	c.JSON(http.StatusOK, resdto.FromRegistrationView(view))
}

// auditAdminAction records who changed a registration; the public
// submission path has no actor, so it never logs here.
func (h *RegistrationHandler) auditAdminAction(c *gin.Context, action string, registrationID uuid.UUID) {
	attrs := []any{
		"registration_id", registrationID.String(),
		"request_id", middleware.GetRequestID(c),
	}
	if actorID, ok := middleware.GetUserID(c); ok {
		attrs = append(attrs, "actor_id", actorID.String())
	}
	slog.InfoContext(c.Request.Context(), action, attrs...)
}

func (h *RegistrationHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid registration ID format", nil)
		return uuid.Nil, false
	}
	return id, true
}

func (h *RegistrationHandler) parseListFilter(c *gin.Context) (queries.ListFilter, bool) {
	var filter queries.ListFilter

	if fromStr := c.Query("from"); fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid 'from' timestamp", nil)
			return filter, false
		}
		filter.From = &from
	}

	if toStr := c.Query("to"); toStr != "" {
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid 'to' timestamp", nil)
			return filter, false
		}
		filter.To = &to
	}

	if status := c.Query("status"); status != "" {
		if !registration.Status(status).IsValid() {
			httperr.AbortWithError(c, http.StatusBadRequest,
				errs.New("unknown status filter"), "Invalid status filter", nil)
			return filter, false
		}
		filter.Status = &status
	}

	return filter, true
}

func (h *RegistrationHandler) respondNotFoundOrInternal(c *gin.Context, err error) {
	if isNotFound(err) {
		httperr.AbortWithError(c, http.StatusNotFound, err, "Registration not found", nil)
		return
	}
	httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
}

func isNotFound(err error) bool {
	return infra.IsKind(err, infra.KindNotFound)
}

func toListResponse(items []*queries.RegistrationListItem) []*resdto.RegistrationListResponse {
	response := make([]*resdto.RegistrationListResponse, len(items))
	for i, rm := range items {
		response[i] = resdto.FromRegistrationListItem(rm)
	}
	return response
}

func submissionMessage(status string) string {
	switch registration.Status(status) {
	case registration.StatusScheduled:
		return "Registration received; sessions scheduled"
	case registration.StatusPending:
		return "Registration received; no free slots within the booking horizon, awaiting manual scheduling"
	case registration.StatusPromised:
		return "Registration received; sessions will be scheduled once payment is confirmed"
	default:
		return "Registration received"
	}
}
