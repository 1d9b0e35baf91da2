package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// setAccessCookie mirrors what the auth middleware reads back: an
// access_token cookie, HttpOnly.
func setAccessCookie(c *gin.Context, token string) {
	c.SetCookie("access_token", token, 3600*24, "/", "", false, true)
}

func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false, "error": err.Error(), "kind": "BadRequest",
		})
		return
	}

	token, cust, err := s.customers.Register(
		c.Request.Context(), req.FirstName, req.LastName, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	setAccessCookie(c, token)
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    gin.H{"token": token, "customer": cust},
	})
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false, "error": err.Error(), "kind": "BadRequest",
		})
		return
	}

	token, cust, err := s.customers.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	setAccessCookie(c, token)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"token": token, "customer": cust},
	})
}

func (s *Server) handleStaffLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false, "error": err.Error(), "kind": "BadRequest",
		})
		return
	}

	token, user, err := s.staffUsers.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	setAccessCookie(c, token)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"token": token, "user": user},
	})
}
