package controllers

import (
	"context"
	"net/http"

	"scan2know/services"

	"github.com/gin-gonic/gin"
)

type Scanner interface {
	Scan(ctx context.Context, in services.ScanInput) (*services.ScanResult, error)
}

type ScanController struct {
	Scans Scanner
}

func NewScanController(s Scanner) *ScanController {
	return &ScanController{Scans: s}
}

// POST /api/scan/upload (multipart: image, productName)
func (sc *ScanController) Upload(c *gin.Context) {
	in := services.ScanInput{
		UserID:      c.GetUint("userID"),
		ProductName: c.PostForm("productName"),
	}

	if fh, err := c.FormFile("image"); err == nil {
		f, err := fh.Open()
		if err != nil {
			internalError(c, err)
			return
		}
		defer f.Close()
		in.Image = f
		in.Filename = fh.Filename
	}

	res, err := sc.Scans.Scan(c.Request.Context(), in)
	if err != nil {
		respondScanError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
