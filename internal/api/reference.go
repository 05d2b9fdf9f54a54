package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/service"
)

// ReferenceHandler serves tags and ingredients. Both lists are small and
// returned without pagination.
type ReferenceHandler struct {
	referenceService service.IReferenceService
}

func NewReferenceHandler(referenceService service.IReferenceService) *ReferenceHandler {
	return &ReferenceHandler{
		referenceService: referenceService,
	}
}

func (h *ReferenceHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/tags", h.ListTags)
	router.GET("/tags/:id", h.GetTag)
	router.GET("/ingredients", h.ListIngredients)
	router.GET("/ingredients/:id", h.GetIngredient)
}

func (h *ReferenceHandler) ListTags(c *gin.Context) {
	tags, err := h.referenceService.ListTags(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, tagResponses(tags))
}

func (h *ReferenceHandler) GetTag(c *gin.Context) {
	id, err := idParam(c, "id", "tag")
	if err != nil {
		_ = c.Error(err)
		return
	}

	tag, err := h.referenceService.GetTag(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, tagResponse(*tag))
}

// ListIngredients filters by ?name= prefix, ignoring case.
func (h *ReferenceHandler) ListIngredients(c *gin.Context) {
	ingredients, err := h.referenceService.SearchIngredients(c.Request.Context(), c.Query("name"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ingredientResponses(ingredients))
}

func (h *ReferenceHandler) GetIngredient(c *gin.Context) {
	id, err := idParam(c, "id", "ingredient")
	if err != nil {
		_ = c.Error(err)
		return
	}

	ingredient, err := h.referenceService.GetIngredient(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ingredientResponse(*ingredient))
}
