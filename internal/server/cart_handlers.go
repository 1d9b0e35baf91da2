package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const cartCookie = "cart_session"

// cartSession returns the caller's cart session id, minting a cookie on
// first touch.
func cartSession(c *gin.Context) string {
	if id, err := c.Cookie(cartCookie); err == nil && id != "" {
		return id
	}
	id := uuid.NewString()
	c.SetCookie(cartCookie, id, 3600*24, "/", "", false, true)
	return id
}

type cartLineRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity"`
}

func (s *Server) handleGetCart(c *gin.Context) {
	lines, err := s.carts.Get(c.Request.Context(), cartSession(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": lines})
}

func (s *Server) handleCartAdd(c *gin.Context) {
	var req cartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false, "error": err.Error(), "kind": "BadRequest",
		})
		return
	}
	if err := s.carts.Add(c.Request.Context(), cartSession(c), req.ProductID, req.Quantity); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleCartSet(c *gin.Context) {
	var req cartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false, "error": err.Error(), "kind": "BadRequest",
		})
		return
	}
	if err := s.carts.Set(c.Request.Context(), cartSession(c), req.ProductID, req.Quantity); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleCartRemove(c *gin.Context) {
	var req cartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false, "error": err.Error(), "kind": "BadRequest",
		})
		return
	}
	if err := s.carts.Remove(c.Request.Context(), cartSession(c), req.ProductID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleCartClear(c *gin.Context) {
	if err := s.carts.Clear(c.Request.Context(), cartSession(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
