package server

import (
	"net/http"
	"strconv"
	"time"

	"compustore-be/internal/order"
	"compustore-be/internal/utils"

	"github.com/gin-gonic/gin"
)

type createOrderRequest struct {
	CustomerID        uint             `json:"customer_id" binding:"required"`
	Lines             []order.CartLine `json:"lines" binding:"required"`
	PaymentMethod     string           `json:"payment_method" binding:"required,oneof=QR CASH"`
	ExternalReference *string          `json:"external_reference"`
}

func (s *Server) handleCreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false, "error": err.Error(), "kind": "BadRequest",
		})
		return
	}

	o, err := s.orders.PlaceOrder(
		c.Request.Context(), req.CustomerID, req.Lines, req.PaymentMethod, req.ExternalReference)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": o})
}

func (s *Server) handleListOrders(c *gin.Context) {
	filter := &order.Filter{}

	if v := c.Query("status"); v != "" {
		status := order.PaymentStatus(v)
		filter.Status = &status
	}
	if v := c.Query("approval"); v != "" {
		approval := order.ApprovalStatus(v)
		filter.Approval = &approval
	}
	if v := c.Query("search"); v != "" {
		filter.Search = &v
	}
	if v := c.Query("date_from"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false, "error": "invalid date_from", "kind": "BadRequest",
			})
			return
		}
		filter.DateFrom = &ts
	}
	if v := c.Query("date_to"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false, "error": "invalid date_to", "kind": "BadRequest",
			})
			return
		}
		filter.DateTo = &ts
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	orders, err := s.orders.ListOrders(
		c.Request.Context(), filter, c.Query("sort"), c.Query("dir"), limit, page)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": orders})
}

func orderIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false, "error": "invalid order id", "kind": "BadRequest",
		})
		return 0, false
	}
	return id, true
}

func (s *Server) handleGetOrder(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}

	o, err := s.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": o})
}

type cancelOrderRequest struct {
	Reason string `json:"reason"`
	// Force permits cancelling an already completed order, restoring stock.
	Force bool `json:"force"`
}

func (s *Server) handleCancelOrder(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}

	var req cancelOrderRequest
	_ = c.ShouldBindJSON(&req)

	var (
		o   *order.Order
		err error
	)
	if req.Force {
		o, err = s.orders.StaffCancelOrder(c.Request.Context(), id, req.Reason)
	} else {
		o, err = s.orders.CancelOrder(c.Request.Context(), id, req.Reason)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": o})
}

type cancelItemsRequest struct {
	Items  map[string]int `json:"items" binding:"required"`
	Reason string         `json:"reason"`
}

func (s *Server) handleCancelItems(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}

	var req cancelItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false, "error": err.Error(), "kind": "BadRequest",
		})
		return
	}

	cancels := make(map[int64]int, len(req.Items))
	for k, qty := range req.Items {
		lineID, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false, "error": "invalid line id: " + k, "kind": "BadRequest",
			})
			return
		}
		cancels[lineID] = qty
	}

	result, err := s.orders.CancelItems(c.Request.Context(), id, cancels, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}

func (s *Server) handleApproveOrder(c *gin.Context) {
	s.setApproval(c, true)
}

func (s *Server) handleRejectOrder(c *gin.Context) {
	s.setApproval(c, false)
}

func (s *Server) setApproval(c *gin.Context, approve bool) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}

	staffID, ok := utils.GetUserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false, "error": "not authorized", "kind": "NotAuthorized",
		})
		return
	}

	var err error
	if approve {
		err = s.orders.Approve(c.Request.Context(), id, staffID)
	} else {
		err = s.orders.Reject(c.Request.Context(), id, staffID)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
