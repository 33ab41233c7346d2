package controllers

import (
	"context"
	"net/http"
	"strconv"

	"scan2know/models"

	"github.com/gin-gonic/gin"
)

type AlertLister interface {
	List(ctx context.Context, userID uint, limit int) ([]models.Alert, error)
}

type NotificationController struct {
	Devices   DeviceRegistry
	AlertList AlertLister
}

func NewNotificationController(devices DeviceRegistry, alerts AlertLister) *NotificationController {
	return &NotificationController{Devices: devices, AlertList: alerts}
}

type toggleReq struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// POST /api/users/notifications/toggle
func (nc *NotificationController) Toggle(c *gin.Context) {
	var req toggleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body")
		return
	}

	if err := nc.Devices.SetNotifications(c.Request.Context(), c.GetUint("userID"), *req.Enabled); err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "notifications updated",
		"enabled": *req.Enabled,
	})
}

// GET /api/users/alerts[?limit=]
func (nc *NotificationController) Alerts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	alerts, err := nc.AlertList.List(c.Request.Context(), c.GetUint("userID"), limit)
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}
