package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/petteraas52-ux/Surat-sub000/internal/admin"
	"github.com/petteraas52-ux/Surat-sub000/internal/apperr"
	"github.com/petteraas52-ux/Surat-sub000/internal/auth"
	"github.com/petteraas52-ux/Surat-sub000/internal/calendar"
	"github.com/petteraas52-ux/Surat-sub000/internal/children"
	"github.com/petteraas52-ux/Surat-sub000/internal/comments"
	"github.com/petteraas52-ux/Surat-sub000/internal/guestlink"
	"github.com/petteraas52-ux/Surat-sub000/internal/objstore"
	"github.com/petteraas52-ux/Surat-sub000/internal/roster"
)

// Handler wires the HTTP surface to the services.
type Handler struct {
	children   *children.Repository
	authSvc    *auth.Service
	adminSvc   *admin.Service
	comments   *comments.Service
	guestLinks *guestlink.Service
	events     *calendar.Repository
	storage    objstore.Storage // nil when not configured
	notifier   roster.Notifier
	photoEdge  int
}

// New creates a handler.
func New(
	childRepo *children.Repository,
	authSvc *auth.Service,
	adminSvc *admin.Service,
	commentSvc *comments.Service,
	guestLinkSvc *guestlink.Service,
	eventRepo *calendar.Repository,
	storage objstore.Storage,
	notifier roster.Notifier,
	photoEdge int,
) *Handler {
	return &Handler{
		children:   childRepo,
		authSvc:    authSvc,
		adminSvc:   adminSvc,
		comments:   commentSvc,
		guestLinks: guestLinkSvc,
		events:     eventRepo,
		storage:    storage,
		notifier:   notifier,
		photoEdge:  photoEdge,
	}
}

// RegisterRoutes mounts all authenticated routes on the group.
func (h *Handler) RegisterRoutes(g *gin.RouterGroup) {
	g.GET("/roster", h.LoadRoster)
	g.POST("/roster/label", h.RosterLabel)
	g.POST("/roster/transition", h.BulkTransition)
	g.POST("/roster/sickness", h.RegisterSickness)
	g.POST("/roster/vacation", h.RegisterVacation)

	g.POST("/children", auth.RequireRole(auth.RoleStaff, auth.RoleAdmin), h.CreateChild)
	g.GET("/children/:id", h.GetChild)
	g.POST("/children/:id/toggle", h.ToggleSingle)
	g.GET("/children/:id/absences", h.AbsenceLog)
	g.GET("/children/:id/comments", h.ListComments)
	g.POST("/children/:id/comments", h.AddComment)
	g.DELETE("/comments/:id", h.DeleteComment)
	g.GET("/children/:id/guestlinks", h.ListGuestLinks)
	g.POST("/children/:id/guestlinks", h.CreateGuestLink)
	g.DELETE("/children/:id/guestlinks/:linkId", h.RevokeGuestLink)
	g.POST("/children/:id/photo", h.UploadPhoto)
	g.GET("/children/:id/photo-url", h.PhotoURL)

	g.GET("/events", h.ListEvents)
	g.POST("/events", auth.RequireRole(auth.RoleStaff, auth.RoleAdmin), h.CreateEvent)
	g.GET("/calendar", h.Calendar)

	g.GET("/departments/:id/report", auth.RequireRole(auth.RoleStaff, auth.RoleAdmin), h.DepartmentReport)

	g.POST("/admin/users", auth.RequireRole(auth.RoleAdmin), h.AdminCreateUser)
}

// ---------- Auth ----------

type signInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SignIn verifies credentials and returns a token pair plus the resolved
// role.
func (h *Handler) SignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pair, actor, err := h.authSvc.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrBadCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": apperr.Message(apperr.DomainAuth, apperr.KindServer)})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": apperr.UserMessage(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"expires_at":    pair.AccessExp.Unix(),
		"role":          actor.Role(),
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh exchanges a refresh token for a new pair.
func (h *Handler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	pair, err := h.authSvc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"expires_at":    pair.AccessExp.Unix(),
	})
}

// ---------- Admin ----------

// AdminCreateUser provisions an account and its role profile atomically.
func (h *Handler) AdminCreateUser(c *gin.Context) {
	var req admin.CreateUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	uid, err := h.adminSvc.CreateUser(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, admin.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"uid": uid})
}

// ---------- Access helpers ----------

// isStaff reports whether the caller holds a staff or admin token.
func isStaff(claims auth.Claims) bool {
	return claims.Role == auth.RoleStaff || claims.Role == auth.RoleAdmin
}

// childForCaller loads a child and enforces that guardians only reach
// their own children.
func (h *Handler) childForCaller(c *gin.Context, id string) (children.Child, bool) {
	child, err := h.children.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "child not found"})
		return children.Child{}, false
	}
	claims := auth.ClaimsFrom(c)
	if isStaff(claims) {
		return child, true
	}
	for _, uid := range child.GuardianIDs {
		if uid == claims.Subject {
			return child, true
		}
	}
	c.JSON(http.StatusForbidden, gin.H{"error": "not a guardian of this child"})
	return children.Child{}, false
}
