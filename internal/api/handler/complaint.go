package handler

import (
	"civiceye/backend/internal/auth"
	"civiceye/backend/internal/complaint"
	"civiceye/backend/internal/config"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type createComplaintRequest struct {
	UserID      string `json:"userId" form:"userId"`
	Type        string `json:"type" form:"type"`
	Description string `json:"description" form:"description"`
	Location    string `json:"location" form:"location"`
}

type statusUpdateRequest struct {
	Status string `json:"status" form:"status"`
}

// CreateComplaint handles POST /complaint. The body is JSON, or multipart
// form data with an optional "proof" file part.
func (h *Handler) CreateComplaint(c *gin.Context) {
	var req createComplaintRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	in := complaint.NewComplaint{
		UserID:      strings.TrimSpace(req.UserID),
		Type:        req.Type,
		Description: req.Description,
		Location:    req.Location,
	}

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile(config.ProofFormField)
		switch {
		case errors.Is(err, http.ErrMissingFile):
		case err != nil:
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid proof upload"})
			return
		default:
			f, err := fh.Open()
			if err != nil {
				respondError(c, err, msgCreateError)
				return
			}
			defer f.Close()
			in.Attachment = &complaint.Attachment{Name: fh.Filename, Body: f}
		}
	}

	created, err := h.Complaints.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err, msgCreateError)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Complaint Registered Successfully", "id": created.ID})
}

// GetAllComplaints handles GET /complaint/all/:userId, where userId is the
// requesting admin.
func (h *Handler) GetAllComplaints(c *gin.Context) {
	complaints, err := h.Complaints.ListAll(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, err, msgInternal)
		return
	}
	c.JSON(http.StatusOK, complaints)
}

// GetMyComplaints handles GET /complaint/mine/:userId.
func (h *Handler) GetMyComplaints(c *gin.Context) {
	userID := c.Param("userId")
	if h.Tokens != nil && !h.authorizeOwner(c, userID) {
		return
	}

	complaints, err := h.Complaints.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, msgInternal)
		return
	}
	c.JSON(http.StatusOK, complaints)
}

// authorizeOwner lets the request through when the Bearer token belongs to
// userID or to an admin. It writes the error response itself.
func (h *Handler) authorizeOwner(c *gin.Context, userID string) bool {
	tokenString, ok := auth.BearerToken(c.GetHeader("Authorization"))
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Authorization token missing"})
		return false
	}
	subject, err := h.Tokens.Verify(tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid token or expired"})
		return false
	}
	if subject == userID {
		return true
	}

	_, err = h.Complaints.AuthorizeAdmin(c.Request.Context(), subject)
	switch {
	case err == nil:
		return true
	case complaint.IsValidation(err), complaint.IsNotFound(err), complaint.IsForbidden(err):
		c.JSON(http.StatusForbidden, gin.H{"message": "Forbidden: Not your complaints"})
	default:
		respondError(c, err, msgInternal)
	}
	return false
}

// UpdateStatus handles PUT /complaint/status/:id.
func (h *Handler) UpdateStatus(c *gin.Context) {
	var req statusUpdateRequest
	if err := c.ShouldBind(&req); err != nil {
		// An unreadable body leaves Status empty, which the state machine
		// rejects after the complaint lookup.
		log.Printf("WARNING: Unreadable status update body for %s: %v", c.Param("id"), err)
	}

	updated, err := h.Complaints.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err, msgInternal)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Status Updated Successfully", "complaint": updated})
}

// GetStats handles GET /complaint/stats. An empty store answers with an
// empty stats object instead of zeroed counters.
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.Complaints.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err, msgInternal)
		return
	}
	if stats == nil {
		c.JSON(http.StatusOK, gin.H{"message": "No complaints found", "stats": gin.H{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Complaint stats fetched successfully", "stats": stats})
}
