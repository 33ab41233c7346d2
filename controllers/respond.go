package controllers

import (
	"errors"
	"net/http"

	"scan2know/services"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
)

func statusForKind(k services.ErrorKind) int {
	switch k {
	case services.KindBadRequest:
		return http.StatusBadRequest
	case services.KindServiceUnavailable:
		return http.StatusServiceUnavailable
	case services.KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondScanError writes a *services.ScanError as {"message": ...} with the
// status of its kind.
func respondScanError(c *gin.Context, err error) {
	var se *services.ScanError
	if !errors.As(err, &se) {
		internalError(c, err)
		return
	}
	c.JSON(statusForKind(se.Kind), gin.H{"message": se.Message})
}

func internalError(c *gin.Context, err error) {
	log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"message": msg})
}
