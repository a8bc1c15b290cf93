package routes

import (
	"github.com/gin-gonic/gin"
)

func SetupCatalogRoutes(r *gin.Engine, private *gin.RouterGroup, h Handlers) {
	r.GET("/brands", h.Catalog.ListBrands)
	r.GET("/brands/:id", h.Catalog.Brands.Get)
	r.GET("/parts", h.Catalog.ListParts)
	r.GET("/parts/:id", h.Catalog.Parts.Get)

	private.POST("/brands", h.Catalog.Brands.Create)
	private.PUT("/brands/:id", h.Catalog.Brands.Update)
	private.DELETE("/brands/:id", h.Catalog.Brands.Delete)
	private.POST("/parts", h.Catalog.Parts.Create)
	private.PUT("/parts/:id", h.Catalog.Parts.Update)
	private.DELETE("/parts/:id", h.Catalog.Parts.Delete)
	private.POST("/parts/:id/image", h.Catalog.UploadPartImage)
}

// SetupShopRoutes mounts cart and order routes. Cart and order placement are
// public, order administration is not.
func SetupShopRoutes(r *gin.Engine, private *gin.RouterGroup, h Handlers) {
	r.POST("/cart", h.Cart.AddToCart)
	r.GET("/cart", h.Cart.ListCart)
	r.GET("/cart/:CustomerID", h.Cart.CustomerCart)
	r.DELETE("/cart/:CustomerID", h.Cart.ClearCart)
	r.DELETE("/cart/:CustomerID/:cartItemId", h.Cart.RemoveFromCart)

	r.POST("/orders", h.Orders.CreateOrder)
	r.GET("/orders", h.Orders.ListOrders)
	r.GET("/orders/:CustomerID", h.Orders.CustomerOrders)

	private.GET("/orders/detail/:id", h.Orders.Admin.Get)
	private.PUT("/orders/:id", h.Orders.Admin.Update)
	private.DELETE("/orders/:id", h.Orders.Admin.Delete)
}

func SetupRecordRoutes(private *gin.RouterGroup, h Handlers) {
	mount := func(path string, list, get, create, update, del gin.HandlerFunc) {
		private.GET(path, list)
		private.GET(path+"/:id", get)
		private.POST(path, create)
		private.PUT(path+"/:id", update)
		private.DELETE(path+"/:id", del)
	}
	mount("/user-locations", h.Locations.List, h.Locations.Get, h.Locations.Create, h.Locations.Update, h.Locations.Delete)
	mount("/user-parts-details", h.Details.List, h.Details.Get, h.Details.Create, h.Details.Update, h.Details.Delete)
	mount("/feedback-ratings", h.Feedback.List, h.Feedback.Get, h.Feedback.Create, h.Feedback.Update, h.Feedback.Delete)
}
