package server

import (
	"net/http"
	"strconv"

	"compustore-be/internal/product"

	"github.com/gin-gonic/gin"
)

type productRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	UnitPrice   float64  `json:"unit_price" binding:"required,gt=0"`
	CostBasis   *float64 `json:"cost_basis"`
	StockOnHand int      `json:"stock_on_hand" binding:"gte=0"`
	Preorder    bool     `json:"preorder"`
}

func productIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false, "error": "invalid product id", "kind": "BadRequest",
		})
		return 0, false
	}
	return id, true
}

func (s *Server) handleListProducts(c *gin.Context) {
	products, err := s.products.List(c.Request.Context(), c.Query("include_hidden") == "true")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": products})
}

func (s *Server) handleGetProduct(c *gin.Context) {
	id, ok := productIDParam(c)
	if !ok {
		return
	}
	p, err := s.products.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": p})
}

func (s *Server) handleCreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false, "error": err.Error(), "kind": "BadRequest",
		})
		return
	}

	p := &product.Product{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		UnitPrice:   req.UnitPrice,
		CostBasis:   req.CostBasis,
		StockOnHand: req.StockOnHand,
		Preorder:    req.Preorder,
	}
	if err := s.products.Create(c.Request.Context(), p); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": p})
}

func (s *Server) handleUpdateProduct(c *gin.Context) {
	id, ok := productIDParam(c)
	if !ok {
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false, "error": err.Error(), "kind": "BadRequest",
		})
		return
	}

	p := &product.Product{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		UnitPrice:   req.UnitPrice,
		CostBasis:   req.CostBasis,
		StockOnHand: req.StockOnHand,
		Preorder:    req.Preorder,
	}
	if err := s.products.Update(c.Request.Context(), p); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": p})
}

func (s *Server) productAction(c *gin.Context, fn func(int64) error) {
	id, ok := productIDParam(c)
	if !ok {
		return
	}
	if err := fn(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleArchiveProduct(c *gin.Context) {
	s.productAction(c, func(id int64) error {
		return s.products.Archive(c.Request.Context(), id)
	})
}

func (s *Server) handleUnarchiveProduct(c *gin.Context) {
	s.productAction(c, func(id int64) error {
		return s.products.Unarchive(c.Request.Context(), id)
	})
}

func (s *Server) handleSoftDeleteProduct(c *gin.Context) {
	s.productAction(c, func(id int64) error {
		return s.products.SoftDelete(c.Request.Context(), id)
	})
}

func (s *Server) handleRestoreProduct(c *gin.Context) {
	s.productAction(c, func(id int64) error {
		return s.products.Restore(c.Request.Context(), id)
	})
}

type promotionRequest struct {
	Percentage float64 `json:"percentage" binding:"required,gte=0,lt=100"`
}

func (s *Server) handleApplyPromotion(c *gin.Context) {
	id, ok := productIDParam(c)
	if !ok {
		return
	}

	var req promotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false, "error": err.Error(), "kind": "BadRequest",
		})
		return
	}

	p, err := s.products.ApplyPromotion(c.Request.Context(), id, req.Percentage)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": p})
}

func (s *Server) handleClearPromotion(c *gin.Context) {
	id, ok := productIDParam(c)
	if !ok {
		return
	}

	p, err := s.products.ClearPromotion(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": p})
}
