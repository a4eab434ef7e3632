package handler

import (
	"context"
	"net/http"
	"strconv"

	"foodgram/backend/internal/auth"
	"foodgram/backend/internal/config"
	"foodgram/backend/internal/database"
	"foodgram/backend/internal/media"
	"foodgram/backend/internal/models"
	"foodgram/backend/internal/store"
	"foodgram/backend/internal/validation"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// RecipeIngredientInput is one requested ingredient line.
type RecipeIngredientInput struct {
	ID     uint `json:"id" example:"1"`
	Amount int  `json:"amount" example:"200"`
}

// RecipeInput is the body of recipe create and update. On update an empty
// image keeps the stored one.
type RecipeInput struct {
	Ingredients []RecipeIngredientInput `json:"ingredients"`
	Tags        []uint                  `json:"tags" example:"1,2"`
	Image       string                  `json:"image" example:"data:image/png;base64,iVBORw0KGgo..."`
	Name        string                  `json:"name" example:"Pancakes"`
	Text        string                  `json:"text" example:"Whisk everything and fry."`
	CookingTime int                     `json:"cooking_time" example:"20"`
}

// RecipeIngredientResponse is an ingredient with the amount a recipe uses.
type RecipeIngredientResponse struct {
	ID              uint   `json:"id" example:"1"`
	Name            string `json:"name" example:"Flour"`
	MeasurementUnit string `json:"measurement_unit" example:"g"`
	Amount          int    `json:"amount" example:"200"`
}

// RecipeResponse is the full recipe representation.
type RecipeResponse struct {
	ID               uint                       `json:"id" example:"1"`
	Tags             []TagResponse              `json:"tags"`
	Author           UserResponse               `json:"author"`
	Ingredients      []RecipeIngredientResponse `json:"ingredients"`
	IsFavorited      bool                       `json:"is_favorited"`
	IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
	Name             string                     `json:"name" example:"Pancakes"`
	Image            string                     `json:"image" example:"/media/recipes/5b0e.png"`
	Text             string                     `json:"text"`
	CookingTime      int                        `json:"cooking_time" example:"20"`
}

// ShortRecipeResponse is the compact form used in favorites, cart and
// subscription previews.
type ShortRecipeResponse struct {
	ID          uint   `json:"id" example:"1"`
	Name        string `json:"name" example:"Pancakes"`
	Image       string `json:"image" example:"/media/recipes/5b0e.png"`
	CookingTime int    `json:"cooking_time" example:"20"`
}

// ShortLinkResponse carries the public short URL of a recipe.
type ShortLinkResponse struct {
	ShortLink string `json:"short-link" example:"http://localhost:8080/s/Uk1Bq9"`
}

// PaginatedRecipeResponse is a page of recipes.
type PaginatedRecipeResponse = PaginatedResponse[RecipeResponse]

// endregion

func newShortRecipeResponse(recipe models.Recipe) ShortRecipeResponse {
	return ShortRecipeResponse{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.Image,
		CookingTime: recipe.CookingTime,
	}
}

func shortRecipeResponses(recipes []models.Recipe) []ShortRecipeResponse {
	response := make([]ShortRecipeResponse, len(recipes))
	for i, recipe := range recipes {
		response[i] = newShortRecipeResponse(recipe)
	}
	return response
}

// recipeResponses resolves the viewer-relative flags of all recipes with one
// query per flag.
func recipeResponses(ctx context.Context, viewerID uint, recipes []models.Recipe) ([]RecipeResponse, error) {
	recipeIDs := make([]uint, len(recipes))
	authorIDs := make([]uint, len(recipes))
	for i, recipe := range recipes {
		recipeIDs[i] = recipe.ID
		authorIDs[i] = recipe.AuthorID
	}

	favorited, err := store.Favorites.Linked(ctx, database.DB, viewerID, recipeIDs)
	if err != nil {
		return nil, err
	}
	inCart, err := store.ShoppingCart.Linked(ctx, database.DB, viewerID, recipeIDs)
	if err != nil {
		return nil, err
	}
	subscribed, err := store.Subscriptions.Linked(ctx, database.DB, viewerID, authorIDs)
	if err != nil {
		return nil, err
	}

	response := make([]RecipeResponse, len(recipes))
	for i, recipe := range recipes {
		ingredients := make([]RecipeIngredientResponse, len(recipe.Compositions))
		for j, line := range recipe.Compositions {
			ingredients[j] = RecipeIngredientResponse{
				ID:              line.IngredientID,
				Name:            line.Ingredient.Name,
				MeasurementUnit: line.Ingredient.MeasurementUnit,
				Amount:          line.Amount,
			}
		}
		response[i] = RecipeResponse{
			ID:               recipe.ID,
			Tags:             tagResponses(recipe.Tags),
			Author:           newUserResponse(recipe.Author, subscribed[recipe.AuthorID]),
			Ingredients:      ingredients,
			IsFavorited:      favorited[recipe.ID],
			IsInShoppingCart: inCart[recipe.ID],
			Name:             recipe.Name,
			Image:            recipe.Image,
			Text:             recipe.Text,
			CookingTime:      recipe.CookingTime,
		}
	}
	return response, nil
}

func respondRecipe(c *gin.Context, status int, recipe *models.Recipe) {
	response, err := recipeResponses(c.Request.Context(), auth.ViewerID(c), []models.Recipe{*recipe})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, response[0])
}

// draftFromInput converts the request body and decodes its image, if any.
func draftFromInput(input RecipeInput) (validation.RecipeDraft, *media.Image, error) {
	draft := validation.RecipeDraft{
		Name:        input.Name,
		Text:        input.Text,
		CookingTime: input.CookingTime,
		TagIDs:      input.Tags,
		Ingredients: make([]validation.IngredientLine, len(input.Ingredients)),
	}
	for i, line := range input.Ingredients {
		draft.Ingredients[i] = validation.IngredientLine{IngredientID: line.ID, Amount: line.Amount}
	}
	if input.Image == "" {
		return draft, nil, nil
	}
	img, err := media.DecodeDataURL("image", input.Image)
	if err != nil {
		return draft, nil, err
	}
	draft.Image = img.Data
	return draft, &img, nil
}

func queryFlag(c *gin.Context, name string) bool {
	v, err := strconv.ParseBool(c.Query(name))
	return err == nil && v
}

// region --- Recipe Handlers ---

// ListRecipes godoc
// @Summary      List recipes
// @Description  Newest first. Favorite and cart filters apply only to authenticated users.
// @Tags         recipes
// @Produce      json
// @Param        page                 query  int       false  "Page number" default(1)
// @Param        limit                query  int       false  "Items per page" default(6)
// @Param        author               query  int       false  "Author ID"
// @Param        tags                 query  []string  false  "Tag slugs, any of" collectionFormat(multi)
// @Param        is_favorited         query  int       false  "1 to list favorites only"
// @Param        is_in_shopping_cart  query  int       false  "1 to list cart only"
// @Success      200  {object}  PaginatedRecipeResponse
// @Router       /recipes [get]
func ListRecipes(c *gin.Context) {
	ctx := c.Request.Context()
	viewerID := auth.ViewerID(c)
	page, limit, window := pageParams(c)

	var filter store.RecipeFilter
	if author, err := strconv.ParseUint(c.Query("author"), 10, 32); err == nil {
		filter.AuthorID = uint(author)
	}
	filter.TagSlugs = c.QueryArray("tags")
	if viewerID != 0 {
		if queryFlag(c, "is_favorited") {
			filter.FavoritedBy = viewerID
		}
		if queryFlag(c, "is_in_shopping_cart") {
			filter.InCartOf = viewerID
		}
	}

	recipes, total, err := store.ListRecipes(ctx, database.DB, filter, window)
	if err != nil {
		respondError(c, err)
		return
	}
	response, err := recipeResponses(ctx, viewerID, recipes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewPaginatedResponse(response, total, page, limit))
}

// GetRecipe godoc
// @Summary      Get a recipe
// @Tags         recipes
// @Produce      json
// @Param        id   path      int  true  "Recipe ID"
// @Success      200  {object}  RecipeResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /recipes/{id} [get]
func GetRecipe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	recipe, err := store.GetRecipe(c.Request.Context(), database.DB, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondRecipe(c, http.StatusOK, recipe)
}

// CreateRecipe godoc
// @Summary      Publish a recipe
// @Tags         recipes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body RecipeInput true "Recipe"
// @Success      201  {object}  RecipeResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /recipes [post]
func CreateRecipe(c *gin.Context) {
	var input RecipeInput
	if !bindJSON(c, &input) {
		return
	}
	ctx := c.Request.Context()
	userID, _ := auth.CurrentUserID(c)

	draft, img, err := draftFromInput(input)
	if err == nil {
		err = validation.Recipe(draft, true)
	}
	if err == nil {
		_, err = store.CheckReferences(ctx, database.DB, draft.TagIDs, draft.Ingredients)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	ref, err := deps.Media.Save(ctx, media.DirRecipes, *img)
	if err != nil {
		respondError(c, err)
		return
	}
	recipe, err := store.CreateRecipe(ctx, database.DB, deps.Links, userID, draft, ref)
	if err != nil {
		discardImage(ctx, ref)
		respondError(c, err)
		return
	}
	respondRecipe(c, http.StatusCreated, recipe)
}

// UpdateRecipe godoc
// @Summary      Update a recipe
// @Description  Replaces fields, tags and ingredients. Only the author or an admin may update.
// @Tags         recipes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int          true  "Recipe ID"
// @Param        input body  RecipeInput  true  "Recipe"
// @Success      200  {object}  RecipeResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /recipes/{id} [patch]
func UpdateRecipe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input RecipeInput
	if !bindJSON(c, &input) {
		return
	}
	ctx := c.Request.Context()
	actor := store.Actor{UserID: auth.ViewerID(c), Privileged: auth.IsPrivileged(c)}

	existing, err := store.GetRecipe(ctx, database.DB, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !actor.CanMutate(*existing) {
		c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "You do not have permission to modify this recipe"})
		return
	}

	draft, img, err := draftFromInput(input)
	if err == nil {
		err = validation.Recipe(draft, false)
	}
	if err == nil {
		_, err = store.CheckReferences(ctx, database.DB, draft.TagIDs, draft.Ingredients)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	var ref string
	if img != nil {
		if ref, err = deps.Media.Save(ctx, media.DirRecipes, *img); err != nil {
			respondError(c, err)
			return
		}
	}
	recipe, replaced, err := store.UpdateRecipe(ctx, database.DB, actor, id, draft, ref)
	if err != nil {
		discardImage(ctx, ref)
		respondError(c, err)
		return
	}
	discardImage(ctx, replaced)
	respondRecipe(c, http.StatusOK, recipe)
}

// DeleteRecipe godoc
// @Summary      Delete a recipe
// @Tags         recipes
// @Security     BearerAuth
// @Param        id   path  int  true  "Recipe ID"
// @Success      204
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /recipes/{id} [delete]
func DeleteRecipe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	actor := store.Actor{UserID: auth.ViewerID(c), Privileged: auth.IsPrivileged(c)}

	image, err := store.DeleteRecipe(ctx, database.DB, actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	discardImage(ctx, image)
	c.Status(http.StatusNoContent)
}

// GetShortLink godoc
// @Summary      Get a recipe's short link
// @Tags         recipes
// @Produce      json
// @Param        id   path      int  true  "Recipe ID"
// @Success      200  {object}  ShortLinkResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /recipes/{id}/get-link [get]
func GetShortLink(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	recipe, err := store.GetRecipe(c.Request.Context(), database.DB, id)
	if err != nil {
		respondError(c, err)
		return
	}

	var token string
	if recipe.ShortLink != nil {
		token = *recipe.ShortLink
	} else if token, err = deps.Links.Encode(recipe.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ShortLinkResponse{ShortLink: config.AppConfig.PublicURL + "/s/" + token})
}

// ResolveShortLink godoc
// @Summary      Follow a short link
// @Description  Redirects to the recipe page on the public site.
// @Tags         recipes
// @Param        token  path  string  true  "Short link token"
// @Success      302
// @Failure      404  {object}  ErrorResponse
// @Router       /s/{token} [get]
func ResolveShortLink(c *gin.Context) {
	recipe, err := store.ResolveShortLink(c.Request.Context(), database.DB, deps.Links, c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Redirect(http.StatusFound, config.AppConfig.PublicURL+"/recipes/"+strconv.FormatUint(uint64(recipe.ID), 10))
}

// endregion
