package handler

import (
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/petteraas52-ux/Surat-sub000/internal/apperr"
	"github.com/petteraas52-ux/Surat-sub000/internal/auth"
	"github.com/petteraas52-ux/Surat-sub000/internal/calendar"
	"github.com/petteraas52-ux/Surat-sub000/internal/children"
	"github.com/petteraas52-ux/Surat-sub000/internal/dateutil"
	"github.com/petteraas52-ux/Surat-sub000/internal/objstore"
	"github.com/petteraas52-ux/Surat-sub000/internal/report"
	"github.com/petteraas52-ux/Surat-sub000/internal/roster"
)

// ---------- Children ----------

type createChildRequest struct {
	FirstName    string   `json:"first_name" binding:"required"`
	LastName     string   `json:"last_name" binding:"required"`
	BirthDate    string   `json:"birth_date" binding:"required"`
	Allergies    []string `json:"allergies"`
	GuardianIDs  []string `json:"guardian_ids" binding:"required,min=1"`
	DepartmentID string   `json:"department_id" binding:"required"`
}

// CreateChild registers a child. Guardian list must be non-empty for a
// well-formed record.
func (h *Handler) CreateChild(c *gin.Context) {
	var req createChildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := dateutil.ParseLocal(req.BirthDate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "birth_date must be YYYY-MM-DD"})
		return
	}

	id, err := h.children.Create(c.Request.Context(), children.Child{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		BirthDate:    req.BirthDate,
		Allergies:    req.Allergies,
		GuardianIDs:  req.GuardianIDs,
		DepartmentID: req.DepartmentID,
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": apperr.Message(apperr.DomainChildren, apperr.KindCreateFailed)})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// GetChild returns a child with its absence label.
func (h *Handler) GetChild(c *gin.Context) {
	child, ok := h.childForCaller(c, c.Param("id"))
	if !ok {
		return
	}
	c.JSON(http.StatusOK, rosterChildResponse{
		Child:        roster.Child{Child: child},
		AbsenceLabel: roster.AbsenceLabel(roster.Child{Child: child}),
	})
}

// AbsenceLog returns the child's append-only absence history.
func (h *Handler) AbsenceLog(c *gin.Context) {
	child, ok := h.childForCaller(c, c.Param("id"))
	if !ok {
		return
	}
	entries, err := h.children.AbsenceLog(c.Request.Context(), child.ID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": apperr.Message(apperr.DomainAbsence, apperr.KindUnknown)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// ---------- Comments ----------

// ListComments returns a child's comments, oldest first.
func (h *Handler) ListComments(c *gin.Context) {
	child, ok := h.childForCaller(c, c.Param("id"))
	if !ok {
		return
	}
	list, err := h.comments.ByChild(c.Request.Context(), child.ID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": apperr.UserMessage(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": list})
}

type addCommentRequest struct {
	Body       string `json:"body" binding:"required"`
	AuthorName string `json:"author_name" binding:"required"`
}

// AddComment appends a comment as the signed-in caller.
func (h *Handler) AddComment(c *gin.Context) {
	child, ok := h.childForCaller(c, c.Param("id"))
	if !ok {
		return
	}
	var req addCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	claims := auth.ClaimsFrom(c)
	id, err := h.comments.Add(c.Request.Context(), child.ID, claims.Subject, req.AuthorName, req.Body)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": apperr.UserMessage(err)})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// DeleteComment hard-deletes a comment by id.
func (h *Handler) DeleteComment(c *gin.Context) {
	if err := h.comments.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": apperr.UserMessage(err)})
		return
	}
	c.Status(http.StatusNoContent)
}

// ---------- Guest links ----------

// ListGuestLinks returns a child's pickup authorizations.
func (h *Handler) ListGuestLinks(c *gin.Context) {
	child, ok := h.childForCaller(c, c.Param("id"))
	if !ok {
		return
	}
	links, err := h.guestLinks.ByChild(c.Request.Context(), child.ID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": apperr.UserMessage(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"guest_links": links})
}

type createGuestLinkRequest struct {
	GuestName string `json:"guest_name" binding:"required"`
	Relation  string `json:"relation"`
	Date      string `json:"date" binding:"required"`
}

// CreateGuestLink authorizes a guest pickup for a child.
func (h *Handler) CreateGuestLink(c *gin.Context) {
	child, ok := h.childForCaller(c, c.Param("id"))
	if !ok {
		return
	}
	var req createGuestLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := dateutil.ParseLocal(req.Date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	claims := auth.ClaimsFrom(c)
	id, err := h.guestLinks.Create(c.Request.Context(), child.ID, req.GuestName, req.Relation, req.Date, claims.Subject)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": apperr.UserMessage(err)})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// RevokeGuestLink removes a pickup authorization.
func (h *Handler) RevokeGuestLink(c *gin.Context) {
	child, ok := h.childForCaller(c, c.Param("id"))
	if !ok {
		return
	}
	if err := h.guestLinks.Revoke(c.Request.Context(), child.ID, c.Param("linkId")); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": apperr.UserMessage(err)})
		return
	}
	c.Status(http.StatusNoContent)
}

// ---------- Events & calendar ----------

// ListEvents returns a department's events ordered by date.
func (h *Handler) ListEvents(c *gin.Context) {
	departmentID := c.Query("department_id")
	if departmentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "department_id required"})
		return
	}
	events, err := h.events.ByDepartment(c.Request.Context(), departmentID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": apperr.Message(apperr.DomainEvents, apperr.KindLoadFailed)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

type createEventRequest struct {
	Title        string `json:"title" binding:"required"`
	DepartmentID string `json:"department_id" binding:"required"`
	Description  string `json:"description"`
	Date         string `json:"date" binding:"required"`
}

// CreateEvent registers a facility event.
func (h *Handler) CreateEvent(c *gin.Context) {
	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := dateutil.ParseLocal(req.Date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	id, err := h.events.Create(c.Request.Context(), calendar.Event{
		Title:        req.Title,
		DepartmentID: req.DepartmentID,
		Description:  req.Description,
		Date:         req.Date,
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": apperr.Message(apperr.DomainEvents, apperr.KindCreateFailed)})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// Calendar returns the derived month view: the marking map, the nearest
// upcoming event and the events on the selected date.
func (h *Handler) Calendar(c *gin.Context) {
	departmentID := c.Query("department_id")
	if departmentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "department_id required"})
		return
	}
	selected := c.Query("date")
	if selected == "" {
		selected = dateutil.Today()
	}

	events, err := h.events.ByDepartment(c.Request.Context(), departmentID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": apperr.Message(apperr.DomainCalendar, apperr.KindLoadFailed)})
		return
	}

	body := gin.H{
		"markers": calendar.Markers(events, selected),
		"on_date": calendar.OnDate(events, selected),
	}
	if next, ok := calendar.NextUpcoming(events, dateutil.Today()); ok {
		body["next_event"] = next
	}
	c.JSON(http.StatusOK, body)
}

// ---------- Photos ----------

// UploadPhoto accepts a multipart photo, downscales it and stores it
// under a fresh stable path recorded on the child document.
func (h *Handler) UploadPhoto(c *gin.Context) {
	if h.storage == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "photo storage not configured"})
		return
	}
	child, ok := h.childForCaller(c, c.Param("id"))
	if !ok {
		return
	}

	file, _, err := c.Request.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file required"})
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "read file failed"})
		return
	}

	prepared, err := objstore.PrepareImage(data, h.photoEdge)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": apperr.Message(apperr.DomainImage, apperr.KindCreateFailed)})
		return
	}

	path := fmt.Sprintf("children/%s/%s.jpg", child.ID, uuid.NewString())
	if err := h.storage.Upload(c.Request.Context(), path, prepared); err != nil {
		log.Printf("photo upload failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": apperr.Message(apperr.DomainImage, apperr.KindCreateFailed)})
		return
	}

	child.ImagePath = path
	if err := h.children.Update(c.Request.Context(), child); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": apperr.Message(apperr.DomainChildren, apperr.KindUpdateFailed)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": path})
}

// PhotoURL resolves the child's stored photo path to a download URL.
func (h *Handler) PhotoURL(c *gin.Context) {
	if h.storage == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "photo storage not configured"})
		return
	}
	child, ok := h.childForCaller(c, c.Param("id"))
	if !ok {
		return
	}
	if child.ImagePath == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "no photo"})
		return
	}
	url, err := h.storage.DownloadURL(c.Request.Context(), child.ImagePath)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": apperr.Message(apperr.DomainImage, apperr.KindLoadFailed)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// ---------- Reports ----------

// DepartmentReport streams the day sheet for a department as XLSX.
func (h *Handler) DepartmentReport(c *gin.Context) {
	departmentID := c.Param("id")
	date := c.Query("date")
	if date == "" {
		date = dateutil.Today()
	}

	sess := h.newSession()
	list, err := sess.Load(c.Request.Context(), roster.Scope{DepartmentID: departmentID})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": apperr.UserMessage(err)})
		return
	}

	data, err := report.DaySheet(departmentID, date, list)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "report generation failed"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="attendance-%s-%s.xlsx"`, departmentID, date))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
