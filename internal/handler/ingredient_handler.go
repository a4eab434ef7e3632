package handler

import (
	"net/http"

	"foodgram/backend/internal/database"
	"foodgram/backend/internal/models"
	"foodgram/backend/internal/store"

	"github.com/gin-gonic/gin"
)

type IngredientInput struct {
	Name            string `json:"name" binding:"required,max=128" example:"Flour"`
	MeasurementUnit string `json:"measurement_unit" binding:"required,max=64" example:"g"`
}

type IngredientResponse struct {
	ID              uint   `json:"id" example:"1"`
	Name            string `json:"name" example:"Flour"`
	MeasurementUnit string `json:"measurement_unit" example:"g"`
}

func newIngredientResponse(ingredient models.Ingredient) IngredientResponse {
	return IngredientResponse{
		ID:              ingredient.ID,
		Name:            ingredient.Name,
		MeasurementUnit: ingredient.MeasurementUnit,
	}
}

// GetIngredients godoc
// @Summary      List ingredients
// @Description  All ingredients, optionally those whose name starts with the given prefix.
// @Tags         ingredients
// @Produce      json
// @Param        name  query     string  false  "Name prefix, case-insensitive"
// @Success      200   {array}   IngredientResponse
// @Router       /ingredients [get]
func GetIngredients(c *gin.Context) {
	ingredients, err := store.ListIngredients(c.Request.Context(), database.DB, c.Query("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	response := make([]IngredientResponse, len(ingredients))
	for i, ingredient := range ingredients {
		response[i] = newIngredientResponse(ingredient)
	}
	c.JSON(http.StatusOK, response)
}

// GetIngredient godoc
// @Summary      Get an ingredient
// @Tags         ingredients
// @Produce      json
// @Param        id   path      int  true  "Ingredient ID"
// @Success      200  {object}  IngredientResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /ingredients/{id} [get]
func GetIngredient(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ingredient, err := store.GetIngredient(c.Request.Context(), database.DB, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newIngredientResponse(*ingredient))
}

// CreateIngredient godoc
// @Summary      Create an ingredient
// @Tags         admin-ingredients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body IngredientInput true "Ingredient"
// @Success      201  {object}  IngredientResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Router       /admin/ingredients [post]
func CreateIngredient(c *gin.Context) {
	var input IngredientInput
	if !bindJSON(c, &input) {
		return
	}
	ingredient, err := store.CreateIngredient(c.Request.Context(), database.DB, input.Name, input.MeasurementUnit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newIngredientResponse(*ingredient))
}

// DeleteIngredient godoc
// @Summary      Delete an ingredient
// @Description  Fails while any recipe still uses the ingredient.
// @Tags         admin-ingredients
// @Security     BearerAuth
// @Param        id   path  int  true  "Ingredient ID"
// @Success      204
// @Failure      400  {object}  ErrorResponse "Ingredient in use"
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/ingredients/{id} [delete]
func DeleteIngredient(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := store.DeleteIngredient(c.Request.Context(), database.DB, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
