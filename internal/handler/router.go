package handler

import (
	"net/http"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"foodgram/backend/internal/auth"
	"foodgram/backend/internal/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Capability is who may perform an operation on an entity.
type Capability int

const (
	Anyone Capability = iota + 1
	Authenticated
	Admin
)

// Route is one API endpoint. Authorization is looked up from
// (Entity, Operation) in the capability table, never from the handler.
type Route struct {
	Method    string
	Path      string
	Entity    string
	Operation string
	Handler   gin.HandlerFunc
}

type permission struct {
	entity    string
	operation string
}

// Ownership of recipes is enforced in the store; the table only requires
// that the caller is signed in.
var capabilities = map[permission]Capability{
	{"token", "login"}:  Anyone,
	{"token", "logout"}: Authenticated,

	{"user", "list"}:            Anyone,
	{"user", "create"}:          Anyone,
	{"user", "retrieve"}:        Anyone,
	{"user", "me"}:              Authenticated,
	{"user", "set_avatar"}:      Authenticated,
	{"user", "delete_avatar"}:   Authenticated,
	{"user", "set_password"}:    Authenticated,
	{"subscription", "list"}:    Authenticated,
	{"subscription", "create"}:  Authenticated,
	{"subscription", "destroy"}: Authenticated,

	{"tag", "list"}:     Anyone,
	{"tag", "retrieve"}: Anyone,
	{"tag", "create"}:   Admin,
	{"tag", "update"}:   Admin,
	{"tag", "destroy"}:  Admin,

	{"ingredient", "list"}:     Anyone,
	{"ingredient", "retrieve"}: Anyone,
	{"ingredient", "create"}:   Admin,
	{"ingredient", "destroy"}:  Admin,

	{"recipe", "list"}:     Anyone,
	{"recipe", "retrieve"}: Anyone,
	{"recipe", "create"}:   Authenticated,
	{"recipe", "update"}:   Authenticated,
	{"recipe", "destroy"}:  Authenticated,
	{"recipe", "get_link"}: Anyone,

	{"favorite", "create"}:        Authenticated,
	{"favorite", "destroy"}:       Authenticated,
	{"shopping_cart", "create"}:   Authenticated,
	{"shopping_cart", "destroy"}:  Authenticated,
	{"shopping_cart", "download"}: Authenticated,
}

// Routes lists every endpoint under the /api prefix.
func Routes() []Route {
	return []Route{
		{http.MethodPost, "/auth/token/login", "token", "login", Login},
		{http.MethodPost, "/auth/token/logout", "token", "logout", Logout},

		{http.MethodGet, "/users", "user", "list", ListUsers},
		{http.MethodPost, "/users", "user", "create", RegisterUser},
		{http.MethodGet, "/users/me", "user", "me", GetMe},
		{http.MethodPut, "/users/me/avatar", "user", "set_avatar", UpdateAvatar},
		{http.MethodDelete, "/users/me/avatar", "user", "delete_avatar", DeleteAvatar},
		{http.MethodPost, "/users/set_password", "user", "set_password", SetPassword},
		{http.MethodGet, "/users/subscriptions", "subscription", "list", ListSubscriptions},
		{http.MethodGet, "/users/:id", "user", "retrieve", GetUserByID},
		{http.MethodPut, "/users/:id", "user", "update", nil},
		{http.MethodPatch, "/users/:id", "user", "partial_update", nil},
		{http.MethodDelete, "/users/:id", "user", "destroy", nil},
		{http.MethodPost, "/users/:id/subscribe", "subscription", "create", Subscribe},
		{http.MethodDelete, "/users/:id/subscribe", "subscription", "destroy", Unsubscribe},

		{http.MethodGet, "/tags", "tag", "list", GetTags},
		{http.MethodGet, "/tags/:id", "tag", "retrieve", GetTag},
		{http.MethodPost, "/admin/tags", "tag", "create", CreateTag},
		{http.MethodPatch, "/admin/tags/:id", "tag", "update", UpdateTag},
		{http.MethodDelete, "/admin/tags/:id", "tag", "destroy", DeleteTag},

		{http.MethodGet, "/ingredients", "ingredient", "list", GetIngredients},
		{http.MethodGet, "/ingredients/:id", "ingredient", "retrieve", GetIngredient},
		{http.MethodPost, "/admin/ingredients", "ingredient", "create", CreateIngredient},
		{http.MethodDelete, "/admin/ingredients/:id", "ingredient", "destroy", DeleteIngredient},

		{http.MethodGet, "/recipes", "recipe", "list", ListRecipes},
		{http.MethodPost, "/recipes", "recipe", "create", CreateRecipe},
		{http.MethodGet, "/recipes/download_shopping_cart", "shopping_cart", "download", DownloadShoppingCart},
		{http.MethodGet, "/recipes/:id", "recipe", "retrieve", GetRecipe},
		{http.MethodPatch, "/recipes/:id", "recipe", "update", UpdateRecipe},
		{http.MethodDelete, "/recipes/:id", "recipe", "destroy", DeleteRecipe},
		{http.MethodGet, "/recipes/:id/get-link", "recipe", "get_link", GetShortLink},
		{http.MethodPost, "/recipes/:id/favorite", "favorite", "create", AddFavorite},
		{http.MethodDelete, "/recipes/:id/favorite", "favorite", "destroy", RemoveFavorite},
		{http.MethodPost, "/recipes/:id/shopping_cart", "shopping_cart", "create", AddToShoppingCart},
		{http.MethodDelete, "/recipes/:id/shopping_cart", "shopping_cart", "destroy", RemoveFromShoppingCart},
	}
}

// RegisterRoutes mounts routes on group, guarding each with the middleware
// its capability requires. Routes without a capability answer 405.
func RegisterRoutes(group gin.IRoutes, routes []Route) {
	for _, route := range routes {
		capability, ok := capabilities[permission{route.Entity, route.Operation}]
		if !ok || route.Handler == nil {
			group.Handle(route.Method, route.Path, methodNotAllowed)
			continue
		}

		chain := make([]gin.HandlerFunc, 0, 3)
		switch capability {
		case Authenticated:
			chain = append(chain, auth.AuthMiddleware())
		case Admin:
			chain = append(chain, auth.AuthMiddleware(), auth.AdminMiddleware())
		}
		chain = append(chain, route.Handler)
		group.Handle(route.Method, route.Path, chain...)
	}
}

// RouterOptions configures the engine outside of the API routes.
type RouterOptions struct {
	AllowedOrigins []string
	// MediaURL and MediaRoot serve locally stored images when both are set.
	MediaURL  string
	MediaRoot string
}

// NewRouter builds the gin engine with the full middleware stack.
func NewRouter(opts RouterOptions) *gin.Engine {
	registerValidators()

	router := gin.New()
	router.Use(gin.Recovery(), logger.GinMiddleware(), corsMiddleware(opts.AllowedOrigins), auth.OptionalAuthMiddleware())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/s/:token", ResolveShortLink)
	if opts.MediaURL != "" && opts.MediaRoot != "" && strings.HasPrefix(opts.MediaURL, "/") {
		router.Static(opts.MediaURL, opts.MediaRoot)
	}

	RegisterRoutes(router.Group("/api"), Routes())
	return router
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}

var (
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
	validatorsOnce  sync.Once
)

// registerValidators adds the custom binding rules and reports fields by
// their JSON names.
func registerValidators() {
	validatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return usernamePattern.MatchString(fl.Field().String())
		})
	})
}
