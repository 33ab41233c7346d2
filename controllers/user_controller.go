package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"scan2know/models"
	"scan2know/services"

	"github.com/gin-gonic/gin"
)

type UserViews interface {
	RecentSearches(ctx context.Context, userID uint) ([]services.RecentSearch, error)
	ScanDetail(ctx context.Context, userID, scanID uint) (*models.ScanEvent, error)
	Recommendations(ctx context.Context, userID uint) ([]services.Recommendation, error)
}

type UserController struct {
	Users UserViews
}

func NewUserController(u UserViews) *UserController {
	return &UserController{Users: u}
}

// GET /api/users/recent-searches
func (uc *UserController) RecentSearches(c *gin.Context) {
	searches, err := uc.Users.RecentSearches(c.Request.Context(), c.GetUint("userID"))
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"searches": searches})
}

// GET /api/users/scans/:id
func (uc *UserController) ScanDetail(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "Invalid scan id")
		return
	}

	scan, err := uc.Users.ScanDetail(c.Request.Context(), c.GetUint("userID"), uint(id))
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Scan not found"})
		return
	}
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"scan": scan})
}

// GET /api/users/recommendations
func (uc *UserController) Recommendations(c *gin.Context) {
	recs, err := uc.Users.Recommendations(c.Request.Context(), c.GetUint("userID"))
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": recs})
}
