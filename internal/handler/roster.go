package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/petteraas52-ux/Surat-sub000/internal/apperr"
	"github.com/petteraas52-ux/Surat-sub000/internal/auth"
	"github.com/petteraas52-ux/Surat-sub000/internal/roster"
)

// scopeRequest identifies whose roster to operate on. Guardians are
// always scoped to themselves regardless of what they send; staff may
// address a department.
type scopeRequest struct {
	GuardianID   string `json:"guardian_id" form:"guardian_id"`
	DepartmentID string `json:"department_id" form:"department_id"`
}

func (h *Handler) resolveScope(c *gin.Context, req scopeRequest) (roster.Scope, bool) {
	claims := auth.ClaimsFrom(c)
	if !isStaff(claims) {
		return roster.Scope{GuardianID: claims.Subject}, true
	}
	if req.DepartmentID != "" {
		return roster.Scope{DepartmentID: req.DepartmentID}, true
	}
	if req.GuardianID != "" {
		return roster.Scope{GuardianID: req.GuardianID}, true
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "guardian_id or department_id required"})
	return roster.Scope{}, false
}

// newSession builds a fresh per-request roster session. Each request is
// its own screen: there is no shared mutable roster across callers.
func (h *Handler) newSession() *roster.Session {
	return roster.NewSession(h.children, h.notifier)
}

type rosterChildResponse struct {
	roster.Child
	AbsenceLabel string `json:"absenceLabel,omitempty"`
}

func rosterResponse(list []roster.Child) []rosterChildResponse {
	out := make([]rosterChildResponse, 0, len(list))
	for _, child := range list {
		out = append(out, rosterChildResponse{Child: child, AbsenceLabel: roster.AbsenceLabel(child)})
	}
	return out
}

// LoadRoster fetches the roster for the caller's scope.
func (h *Handler) LoadRoster(c *gin.Context) {
	var req scopeRequest
	_ = c.ShouldBindQuery(&req)
	scope, ok := h.resolveScope(c, req)
	if !ok {
		return
	}

	sess := h.newSession()
	list, err := sess.Load(c.Request.Context(), scope)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": apperr.UserMessage(err), "children": []rosterChildResponse{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"children": rosterResponse(list)})
}

type selectionRequest struct {
	scopeRequest
	SelectedIDs []string `json:"selected_ids"`
}

// loadSelected rebuilds a session from the caller's scope and applies
// the client-held selection onto it.
func (h *Handler) loadSelected(c *gin.Context, req selectionRequest) (*roster.Session, bool) {
	scope, ok := h.resolveScope(c, req.scopeRequest)
	if !ok {
		return nil, false
	}
	sess := h.newSession()
	if _, err := sess.Load(c.Request.Context(), scope); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": apperr.UserMessage(err)})
		return nil, false
	}
	for _, id := range req.SelectedIDs {
		sess.ToggleSelect(id)
	}
	return sess, true
}

// RosterLabel derives the bulk-action button label for a selection.
func (h *Handler) RosterLabel(c *gin.Context) {
	var req selectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess, ok := h.loadSelected(c, req)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"label":        sess.ActionLabel(),
		"any_selected": sess.AnySelected(),
	})
}

func transitionStatus(o roster.Outcome) int {
	switch o.Status {
	case roster.FullyApplied:
		return http.StatusOK
	case roster.PartiallyApplied:
		return http.StatusMultiStatus
	default:
		return http.StatusBadGateway
	}
}

func transitionBody(sess *roster.Session, o roster.Outcome, domain apperr.Domain) gin.H {
	body := gin.H{
		"status":   o.Status.String(),
		"applied":  o.Applied,
		"failed":   o.FailedIDs(),
		"children": rosterResponse(sess.Children()),
	}
	if err := o.Err(domain); err != nil {
		body["error"] = apperr.UserMessage(err)
	}
	return body
}

// BulkTransition applies the check-in/check-out flip to the selection.
func (h *Handler) BulkTransition(c *gin.Context) {
	var req selectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess, ok := h.loadSelected(c, req)
	if !ok {
		return
	}
	outcome := sess.ApplyBulkTransition(c.Request.Context())
	c.JSON(transitionStatus(outcome), transitionBody(sess, outcome, apperr.DomainCheckIn))
}

// ToggleSingle flips one child's attendance flag from the detail view.
func (h *Handler) ToggleSingle(c *gin.Context) {
	id := c.Param("id")
	child, ok := h.childForCaller(c, id)
	if !ok {
		return
	}

	sess := h.newSession()
	if _, err := sess.Load(c.Request.Context(), roster.Scope{DepartmentID: child.DepartmentID}); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": apperr.UserMessage(err)})
		return
	}
	outcome := sess.ToggleSingle(c.Request.Context(), id)
	c.JSON(transitionStatus(outcome), transitionBody(sess, outcome, apperr.DomainCheckIn))
}

// RegisterSickness records a single-day sickness for the selection.
func (h *Handler) RegisterSickness(c *gin.Context) {
	var req selectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess, ok := h.loadSelected(c, req)
	if !ok {
		return
	}
	outcome := sess.RegisterSicknessForSelected(c.Request.Context())
	c.JSON(transitionStatus(outcome), transitionBody(sess, outcome, apperr.DomainAbsence))
}

type vacationRequest struct {
	selectionRequest
	Days int `json:"days"`
}

// RegisterVacation records an N-day vacation starting today for the
// selection.
func (h *Handler) RegisterVacation(c *gin.Context) {
	var req vacationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess, ok := h.loadSelected(c, req.selectionRequest)
	if !ok {
		return
	}
	outcome := sess.RegisterVacationForSelected(c.Request.Context(), req.Days)
	c.JSON(transitionStatus(outcome), transitionBody(sess, outcome, apperr.DomainAbsence))
}
