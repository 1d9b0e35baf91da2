package server

import (
	"net/http"
	"strconv"

	"compustore-be/internal/discount"

	"github.com/gin-gonic/gin"
)

type createRuleRequest struct {
	MinimumAmount float64 `json:"minimum_amount" binding:"required,gt=0"`
	Percentage    float64 `json:"percentage" binding:"required,gt=0,lt=100"`
}

func (s *Server) handleCreateRule(c *gin.Context) {
	var req createRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false, "error": err.Error(), "kind": "BadRequest",
		})
		return
	}

	rule := &discount.Rule{
		MinimumAmount: req.MinimumAmount,
		Percentage:    req.Percentage,
		Active:        true,
	}
	if err := s.discounts.Create(c.Request.Context(), rule); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": rule})
}

func (s *Server) handleListRules(c *gin.Context) {
	rules, err := s.discounts.ListActive(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": rules})
}

type updateRuleRequest struct {
	Percentage float64 `json:"percentage" binding:"required,gt=0,lt=100"`
}

func (s *Server) handleUpdateRule(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false, "error": "invalid rule id", "kind": "BadRequest",
		})
		return
	}

	var req updateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false, "error": err.Error(), "kind": "BadRequest",
		})
		return
	}

	if err := s.discounts.UpdatePercentage(c.Request.Context(), id, req.Percentage); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleDeactivateRule(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false, "error": "invalid rule id", "kind": "BadRequest",
		})
		return
	}

	if err := s.discounts.Deactivate(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
