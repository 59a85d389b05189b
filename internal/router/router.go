package router

import (
	"net/http"

	catalogH "github.com/fekuna/omnipos-menu-service/internal/catalog/handler"
	categoryH "github.com/fekuna/omnipos-menu-service/internal/category/handler"
	itemH "github.com/fekuna/omnipos-menu-service/internal/item/handler"
	"github.com/fekuna/omnipos-menu-service/internal/logger"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Category *categoryH.CategoryHandler
	Item     *itemH.ItemHandler
	Catalog  *catalogH.CatalogHandler
}

type Options struct {
	CORSOrigins []string
	Logger      logger.ZapLogger
}

// SetupRouter registers the public and admin routes.
func SetupRouter(h *Handlers, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(opts.Logger))
	r.Use(CORS(opts.CORSOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.GET("/catalog", h.Catalog.GetCatalog)
		api.GET("/categories", h.Category.ListTree)
		api.GET("/categories/:id", h.Category.GetCategory)
		api.GET("/menu", h.Item.ListItems)
		api.GET("/menu/view", h.Catalog.View)
		api.GET("/menu/:id", h.Item.GetItem)
	}

	admin := api.Group("/admin")
	{
		admin.GET("/catalog", h.Catalog.GetAdminCatalog)

		categories := admin.Group("/categories")
		{
			categories.POST("", h.Category.CreateCategory)
			categories.PUT("/:id", h.Category.RenameCategory)
			categories.DELETE("/:id", h.Category.DeleteCategory)
			categories.DELETE("/:id/force", h.Category.ForceDeleteCategory)
		}

		items := admin.Group("/items")
		{
			items.GET("", h.Catalog.ListAdminItems)
			items.POST("", h.Item.CreateItem)
			items.PUT("/:id", h.Item.UpdateItem)
			items.DELETE("/:id", h.Item.DeleteItem)
		}
	}

	return r
}
