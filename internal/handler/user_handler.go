package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"foodgram/backend/internal/apperr"
	"foodgram/backend/internal/auth"
	"foodgram/backend/internal/database"
	"foodgram/backend/internal/logger"
	"foodgram/backend/internal/media"
	"foodgram/backend/internal/models"
	"foodgram/backend/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// region --- DTOs ---

// RegisterInput defines the structure for user registration.
type RegisterInput struct {
	Email     string `json:"email" binding:"required,email,max=254" example:"cook@example.com"`
	Username  string `json:"username" binding:"required,username,max=150" example:"cook"`
	FirstName string `json:"first_name" binding:"required,max=150" example:"Julia"`
	LastName  string `json:"last_name" binding:"required,max=150" example:"Child"`
	Password  string `json:"password" binding:"required,min=8" example:"password123"`
}

// RegisteredUserResponse is returned right after sign-up.
type RegisteredUserResponse struct {
	Email     string `json:"email" example:"cook@example.com"`
	ID        uint   `json:"id" example:"1"`
	Username  string `json:"username" example:"cook"`
	FirstName string `json:"first_name" example:"Julia"`
	LastName  string `json:"last_name" example:"Child"`
}

// UserResponse is a user as seen by the viewer.
type UserResponse struct {
	Email        string `json:"email" example:"cook@example.com"`
	ID           uint   `json:"id" example:"1"`
	Username     string `json:"username" example:"cook"`
	FirstName    string `json:"first_name" example:"Julia"`
	LastName     string `json:"last_name" example:"Child"`
	IsSubscribed bool   `json:"is_subscribed"`
	Avatar       string `json:"avatar" example:"/media/avatars/3f1c.png"`
}

// SubscriptionResponse is a followed author with a preview of their recipes.
type SubscriptionResponse struct {
	UserResponse
	Recipes      []ShortRecipeResponse `json:"recipes"`
	RecipesCount int64                 `json:"recipes_count"`
}

// SetPasswordInput changes the current user's password.
type SetPasswordInput struct {
	NewPassword     string `json:"new_password" binding:"required,min=8"`
	CurrentPassword string `json:"current_password" binding:"required"`
}

// AvatarInput carries a base64 data URL.
type AvatarInput struct {
	Avatar string `json:"avatar" binding:"required" example:"data:image/png;base64,iVBORw0KGgo..."`
}

// AvatarResponse is the stored avatar reference.
type AvatarResponse struct {
	Avatar string `json:"avatar"`
}

// PaginatedUserResponse defines the structure for a paginated list of users.
type PaginatedUserResponse = PaginatedResponse[UserResponse]

// PaginatedSubscriptionResponse is a page of followed authors.
type PaginatedSubscriptionResponse = PaginatedResponse[SubscriptionResponse]

// endregion

func newUserResponse(user models.User, subscribed bool) UserResponse {
	return UserResponse{
		Email:        user.Email,
		ID:           user.ID,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: subscribed,
		Avatar:       user.Avatar,
	}
}

// userResponses resolves is_subscribed for every user in one query.
func userResponses(ctx context.Context, viewerID uint, users []models.User) ([]UserResponse, error) {
	ids := make([]uint, len(users))
	for i, user := range users {
		ids[i] = user.ID
	}
	subscribed, err := store.Subscriptions.Linked(ctx, database.DB, viewerID, ids)
	if err != nil {
		return nil, err
	}
	response := make([]UserResponse, len(users))
	for i, user := range users {
		response[i] = newUserResponse(user, subscribed[user.ID])
	}
	return response, nil
}

func subscriptionResponses(ctx context.Context, authors []models.User, recipesLimit int) ([]SubscriptionResponse, error) {
	ids := make([]uint, len(authors))
	for i, author := range authors {
		ids[i] = author.ID
	}
	counts, err := store.RecipeCounts(ctx, database.DB, ids)
	if err != nil {
		return nil, err
	}

	response := make([]SubscriptionResponse, len(authors))
	for i, author := range authors {
		recipes, err := store.RecentRecipes(ctx, database.DB, author.ID, recipesLimit)
		if err != nil {
			return nil, err
		}
		response[i] = SubscriptionResponse{
			UserResponse: newUserResponse(author, true),
			Recipes:      shortRecipeResponses(recipes),
			RecipesCount: counts[author.ID],
		}
	}
	return response, nil
}

func recipesLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.Query("recipes_limit"))
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}

// region --- User Handlers ---

// RegisterUser godoc
// @Summary      Register a new user
// @Description  Creates a new account. Email and username must be unused.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        input body RegisterInput true "Registration Info"
// @Success      201  {object}  RegisteredUserResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /users [post]
func RegisterUser(c *gin.Context) {
	var input RegisterInput
	if !bindJSON(c, &input) {
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, err)
		return
	}

	user := models.User{
		Email:        input.Email,
		Username:     input.Username,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		PasswordHash: string(hashedPassword),
	}
	if err := store.CreateUser(c.Request.Context(), database.DB, &user); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, RegisteredUserResponse{
		Email:     user.Email,
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	})
}

// ListUsers godoc
// @Summary      List users
// @Tags         users
// @Produce      json
// @Param        page  query     int     false  "Page number" default(1)
// @Param        limit query     int     false  "Items per page" default(6)
// @Success      200   {object}  PaginatedUserResponse
// @Router       /users [get]
func ListUsers(c *gin.Context) {
	ctx := c.Request.Context()
	page, limit, window := pageParams(c)

	users, total, err := store.ListUsers(ctx, database.DB, window)
	if err != nil {
		respondError(c, err)
		return
	}
	response, err := userResponses(ctx, auth.ViewerID(c), users)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewPaginatedResponse(response, total, page, limit))
}

// GetUserByID godoc
// @Summary      Get a user's profile
// @Tags         users
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  UserResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [get]
func GetUserByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	user, err := store.GetUser(ctx, database.DB, id)
	if err != nil {
		respondError(c, err)
		return
	}
	response, err := userResponses(ctx, auth.ViewerID(c), []models.User{*user})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response[0])
}

// GetMe godoc
// @Summary      Get current user's profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  UserResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /users/me [get]
func GetMe(c *gin.Context) {
	userID, _ := auth.CurrentUserID(c)
	user, err := store.GetUser(c.Request.Context(), database.DB, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(*user, false))
}

// SetPassword godoc
// @Summary      Change password
// @Tags         users
// @Accept       json
// @Security     BearerAuth
// @Param        input body SetPasswordInput true "Passwords"
// @Success      204
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /users/set_password [post]
func SetPassword(c *gin.Context) {
	var input SetPasswordInput
	if !bindJSON(c, &input) {
		return
	}
	ctx := c.Request.Context()
	userID, _ := auth.CurrentUserID(c)

	user, err := store.GetUser(ctx, database.DB, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.CurrentPassword)); err != nil {
		respondError(c, apperr.Validation("current_password", "Invalid password"))
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := store.UpdatePasswordHash(ctx, database.DB, userID, string(hashedPassword)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UpdateAvatar godoc
// @Summary      Set current user's avatar
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body AvatarInput true "Avatar as data URL"
// @Success      200  {object}  AvatarResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /users/me/avatar [put]
func UpdateAvatar(c *gin.Context) {
	var input AvatarInput
	if !bindJSON(c, &input) {
		return
	}
	img, err := media.DecodeDataURL("avatar", input.Avatar)
	if err != nil {
		respondError(c, err)
		return
	}
	ctx := c.Request.Context()
	userID, _ := auth.CurrentUserID(c)

	ref, err := deps.Media.Save(ctx, media.DirAvatars, img)
	if err != nil {
		respondError(c, err)
		return
	}
	previous, err := store.UpdateAvatar(ctx, database.DB, userID, ref)
	if err != nil {
		discardImage(ctx, ref)
		respondError(c, err)
		return
	}
	discardImage(ctx, previous)
	c.JSON(http.StatusOK, AvatarResponse{Avatar: ref})
}

// DeleteAvatar godoc
// @Summary      Remove current user's avatar
// @Tags         users
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  ErrorResponse
// @Router       /users/me/avatar [delete]
func DeleteAvatar(c *gin.Context) {
	ctx := c.Request.Context()
	userID, _ := auth.CurrentUserID(c)

	previous, err := store.UpdateAvatar(ctx, database.DB, userID, "")
	if err != nil {
		respondError(c, err)
		return
	}
	discardImage(ctx, previous)
	c.Status(http.StatusNoContent)
}

// endregion

// region --- Subscription Handlers ---

// ListSubscriptions godoc
// @Summary      List followed authors
// @Description  Authors the current user follows, each with up to recipes_limit newest recipes.
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        page          query  int  false  "Page number" default(1)
// @Param        limit         query  int  false  "Items per page" default(6)
// @Param        recipes_limit query  int  false  "Recipes per author"
// @Success      200  {object}  PaginatedSubscriptionResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /users/subscriptions [get]
func ListSubscriptions(c *gin.Context) {
	ctx := c.Request.Context()
	userID, _ := auth.CurrentUserID(c)
	page, limit, window := pageParams(c)

	authors, total, err := store.ListSubscriptions(ctx, database.DB, userID, window)
	if err != nil {
		respondError(c, err)
		return
	}
	response, err := subscriptionResponses(ctx, authors, recipesLimit(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewPaginatedResponse(response, total, page, limit))
}

// Subscribe godoc
// @Summary      Follow an author
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        id            path   int  true   "Author ID"
// @Param        recipes_limit query  int  false  "Recipes in the preview"
// @Success      201  {object}  SubscriptionResponse
// @Failure      400  {object}  ErrorResponse "Already subscribed or self-subscription"
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id}/subscribe [post]
func Subscribe(c *gin.Context) {
	authorID, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	userID, _ := auth.CurrentUserID(c)

	author, err := store.Subscribe(ctx, database.DB, userID, authorID)
	if err != nil {
		respondError(c, err)
		return
	}
	response, err := subscriptionResponses(ctx, []models.User{*author}, recipesLimit(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response[0])
}

// Unsubscribe godoc
// @Summary      Unfollow an author
// @Tags         subscriptions
// @Security     BearerAuth
// @Param        id   path  int  true  "Author ID"
// @Success      204
// @Failure      400  {object}  ErrorResponse "Not subscribed"
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id}/subscribe [delete]
func Unsubscribe(c *gin.Context) {
	authorID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, _ := auth.CurrentUserID(c)
	if err := store.Unsubscribe(c.Request.Context(), database.DB, userID, authorID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// endregion

// discardImage removes a stored image that is no longer referenced. Failures
// leave an orphan file and are only logged.
func discardImage(ctx context.Context, ref string) {
	if ref == "" {
		return
	}
	if err := deps.Media.Delete(ctx, ref); err != nil {
		logger.Warn("failed to delete image", zap.String("ref", ref), zap.Error(err))
	}
}
