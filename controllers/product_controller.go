package controllers

import (
	"context"
	"errors"
	"net/http"

	"scan2know/models"
	"scan2know/services"

	"github.com/gin-gonic/gin"
)

type ProductFinder interface {
	Search(ctx context.Context, name string) (*services.ProductDetail, error)
	Demo(ctx context.Context) ([]models.Product, error)
	Compare(ctx context.Context, names []string) (*services.Comparison, error)
}

type ProductController struct {
	Products ProductFinder
}

func NewProductController(p ProductFinder) *ProductController {
	return &ProductController{Products: p}
}

type searchReq struct {
	ProductName string `json:"productName" binding:"required"`
}

type compareReq struct {
	ProductNames []string `json:"productNames"`
}

// POST /api/products/search
func (pc *ProductController) Search(c *gin.Context) {
	var req searchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "productName is required")
		return
	}

	res, err := pc.Products.Search(c.Request.Context(), req.ProductName)
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusOK, gin.H{"found": false, "message": "Product not found in database"})
		return
	}
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"found": true, "result": res})
}

// GET /api/products/demo
func (pc *ProductController) Demo(c *gin.Context) {
	products, err := pc.Products.Demo(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// POST /api/products/compare
func (pc *ProductController) Compare(c *gin.Context) {
	var req compareReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	res, err := pc.Products.Compare(c.Request.Context(), req.ProductNames)
	switch {
	case errors.Is(err, services.ErrTooFewToCompare), errors.Is(err, services.ErrTooManyToCompare):
		badRequest(c, err.Error())
	case errors.Is(err, services.ErrNotEnoughFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	case err != nil:
		internalError(c, err)
	default:
		c.JSON(http.StatusOK, res)
	}
}
