package server

import (
	"net/http"

	"compustore-be/internal/utils"

	"github.com/gin-gonic/gin"
)

type createSessionRequest struct {
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Currency    string  `json:"currency" binding:"required"`
	OrderID     *int64  `json:"order_id"`
	ReferenceID string  `json:"reference_id"`
}

func (s *Server) handleCreateSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false, "error": err.Error(), "kind": "BadRequest",
		})
		return
	}

	var customerID *uint
	if id, ok := utils.GetUserIDFromContext(c.Request.Context()); ok {
		customerID = &id
	}

	result, err := s.payments.CreateSession(
		c.Request.Context(), req.Amount, req.Currency, req.OrderID, customerID, req.ReferenceID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": result})
}

func (s *Server) handleUploadScreenshot(c *gin.Context) {
	sessionID := c.PostForm("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false, "error": "session_id is required", "kind": "BadRequest",
		})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false, "error": "file is required", "kind": "BadRequest",
		})
		return
	}
	defer file.Close()

	session, err := s.payments.AttachEvidence(
		c.Request.Context(), sessionID, header.Filename, file, header.Size)
	if err != nil {
		respondError(c, err)
		return
	}

	// Evidence completes the session; flip the linked order too.
	if err := s.orders.CompleteFromSession(c.Request.Context(), session); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": session})
}

func (s *Server) handleVerifyFingerprint(c *gin.Context) {
	session, err := s.payments.LookupByFingerprint(c.Request.Context(), c.Param("fingerprint"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": session})
}

func (s *Server) handlePaymentCleanup(c *gin.Context) {
	count, err := s.payments.ExpireStale(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"deleted": count}})
}
