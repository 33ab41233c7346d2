package controllers

import (
	"context"
	"errors"
	"net/http"

	"scan2know/models"
	"scan2know/services"

	"github.com/gin-gonic/gin"
)

type DeviceRegistry interface {
	RegisterDevice(ctx context.Context, userID uint, platform, token string) (*models.UserDevice, error)
	Devices(ctx context.Context, userID uint) ([]models.UserDevice, error)
	SetNotifications(ctx context.Context, userID uint, enabled bool) error
}

type DeviceController struct {
	Push DeviceRegistry
}

func NewDeviceController(ps DeviceRegistry) *DeviceController {
	return &DeviceController{Push: ps}
}

// POST /api/users/devices
func (dc *DeviceController) Register(c *gin.Context) {
	var req services.RegisterDeviceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	dev, err := dc.Push.RegisterDevice(c.Request.Context(), c.GetUint("userID"), req.Platform, req.Token)
	switch {
	case errors.Is(err, services.ErrUnknownPlatform):
		badRequest(c, err.Error())
		return
	case errors.Is(err, services.ErrPushNotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Push notifications are not configured"})
		return
	case err != nil:
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"endpoint_arn": dev.EndpointARN})
}

// GET /api/users/devices
func (dc *DeviceController) List(c *gin.Context) {
	devices, err := dc.Push.Devices(c.Request.Context(), c.GetUint("userID"))
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"devices": devices})
}
