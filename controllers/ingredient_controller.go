package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"scan2know/models"
	"scan2know/services"

	"github.com/gin-gonic/gin"
)

type IngredientController struct {
	Catalog services.Catalog
}

func NewIngredientController(catalog services.Catalog) *IngredientController {
	return &IngredientController{Catalog: catalog}
}

// GET /api/ingredients[?q=]
func (ic *IngredientController) List(c *gin.Context) {
	var (
		items []models.Ingredient
		err   error
	)
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		items, err = ic.Catalog.Search(c.Request.Context(), q)
	} else {
		items, err = ic.Catalog.All(c.Request.Context())
	}
	if err != nil {
		internalError(c, err)
		return
	}
	if items == nil {
		items = []models.Ingredient{}
	}
	c.JSON(http.StatusOK, gin.H{"ingredients": items})
}

// GET /api/ingredients/:id
func (ic *IngredientController) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "Invalid ingredient id")
		return
	}

	ing, err := ic.Catalog.Get(c.Request.Context(), uint(id))
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Ingredient not found"})
		return
	}
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ingredient": ing})
}
