package handler

import (
	"bytes"
	"context"
	"net/http"

	"foodgram/backend/internal/auth"
	"foodgram/backend/internal/database"
	"foodgram/backend/internal/shoppinglist"
	"foodgram/backend/internal/store"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// recipeEdge is the part of store.EdgeSet the collection handlers need.
type recipeEdge interface {
	Add(ctx context.Context, db *gorm.DB, userID, recipeID uint) error
	Remove(ctx context.Context, db *gorm.DB, userID, recipeID uint) error
}

func addRecipeEdge(edges recipeEdge) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		ctx := c.Request.Context()
		userID, _ := auth.CurrentUserID(c)

		recipe, err := store.GetRecipe(ctx, database.DB, id)
		if err != nil {
			respondError(c, err)
			return
		}
		if err := edges.Add(ctx, database.DB, userID, recipe.ID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, newShortRecipeResponse(*recipe))
	}
}

func removeRecipeEdge(edges recipeEdge) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		ctx := c.Request.Context()
		userID, _ := auth.CurrentUserID(c)

		if _, err := store.GetRecipe(ctx, database.DB, id); err != nil {
			respondError(c, err)
			return
		}
		if err := edges.Remove(ctx, database.DB, userID, id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// AddFavorite godoc
// @Summary      Add a recipe to favorites
// @Tags         favorites
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Recipe ID"
// @Success      201  {object}  ShortRecipeResponse
// @Failure      400  {object}  ErrorResponse "Already in favorites"
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /recipes/{id}/favorite [post]
func AddFavorite(c *gin.Context) { addRecipeEdge(store.Favorites)(c) }

// RemoveFavorite godoc
// @Summary      Remove a recipe from favorites
// @Tags         favorites
// @Security     BearerAuth
// @Param        id   path  int  true  "Recipe ID"
// @Success      204
// @Failure      400  {object}  ErrorResponse "Not in favorites"
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /recipes/{id}/favorite [delete]
func RemoveFavorite(c *gin.Context) { removeRecipeEdge(store.Favorites)(c) }

// AddToShoppingCart godoc
// @Summary      Add a recipe to the shopping cart
// @Tags         shopping-cart
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Recipe ID"
// @Success      201  {object}  ShortRecipeResponse
// @Failure      400  {object}  ErrorResponse "Already in cart"
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /recipes/{id}/shopping_cart [post]
func AddToShoppingCart(c *gin.Context) { addRecipeEdge(store.ShoppingCart)(c) }

// RemoveFromShoppingCart godoc
// @Summary      Remove a recipe from the shopping cart
// @Tags         shopping-cart
// @Security     BearerAuth
// @Param        id   path  int  true  "Recipe ID"
// @Success      204
// @Failure      400  {object}  ErrorResponse "Not in cart"
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /recipes/{id}/shopping_cart [delete]
func RemoveFromShoppingCart(c *gin.Context) { removeRecipeEdge(store.ShoppingCart)(c) }

// DownloadShoppingCart godoc
// @Summary      Download the shopping list
// @Description  Sums the ingredients of every recipe in the cart, per name and unit.
// @Tags         shopping-cart
// @Produce      plain
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        format  query  string  false  "txt (default) or xlsx"
// @Success      200  {file}    file
// @Failure      401  {object}  ErrorResponse
// @Router       /recipes/download_shopping_cart [get]
func DownloadShoppingCart(c *gin.Context) {
	userID, _ := auth.CurrentUserID(c)
	items, err := store.ShoppingList(c.Request.Context(), database.DB, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	var buf bytes.Buffer
	filename, contentType := shoppinglist.TextFilename, "text/plain; charset=utf-8"
	if c.Query("format") == "xlsx" {
		filename, contentType = shoppinglist.XLSXFilename, contentTypeXLSX
		err = shoppinglist.WriteXLSX(&buf, items)
	} else {
		err = shoppinglist.WriteText(&buf, items)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
