package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"storefront/internal/api/handlers"
	"storefront/internal/api/middleware"
	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/events"
	"storefront/internal/logger"
	"storefront/internal/service"

	"github.com/gin-gonic/gin"
)

type Server struct {
	config *config.Config
	logger *logger.Logger
	router *gin.Engine
	server *http.Server
}

func New(cfg *config.Config, log *logger.Logger, cat *catalog.Catalog, activity *service.Activity, dispatcher *events.Dispatcher) *Server {
	// Set Gin mode
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS())

	// Initialize handlers
	productHandler := handlers.NewProductHandler(cat, dispatcher, log)
	cartHandler := handlers.NewCartHandler(activity, log)
	wishlistHandler := handlers.NewWishlistHandler(activity, log)
	keepShoppingHandler := handlers.NewKeepShoppingHandler(activity, log)

	auth := middleware.Auth(cfg.JWTSecret)
	optionalAuth := middleware.OptionalAuth(cfg.JWTSecret)

	// Routes
	v1 := router.Group("/api/v1")
	{
		// Products
		products := v1.Group("/products")
		{
			products.GET("", productHandler.List)
			products.GET("/search", productHandler.Search)
			products.GET("/popular", productHandler.Popular)
			products.GET("/trending", productHandler.Trending)
			products.GET("/categories", productHandler.Categories)
			products.GET("/brands", productHandler.Brands)
			products.GET("/category/:category", productHandler.ByCategory)
			products.GET("/brand/:brand", productHandler.ByBrand)
			products.GET("/:id", optionalAuth, productHandler.Get)
			products.POST("", productHandler.Create)
			products.POST("/:id/purchase", optionalAuth, productHandler.Purchase)
		}

		// Cart
		cart := v1.Group("/cart", auth)
		{
			cart.GET("", cartHandler.Get)
			cart.PUT("/:id", cartHandler.Add)
			cart.DELETE("/:id", cartHandler.Remove)
		}

		// Wishlist
		wishlist := v1.Group("/wishlist", auth)
		{
			wishlist.GET("", wishlistHandler.Get)
			wishlist.PUT("/:id", wishlistHandler.Toggle)
			wishlist.DELETE("/:id", wishlistHandler.Remove)
		}

		// Keep shopping for
		keepShopping := v1.Group("/keep-shopping-for", auth)
		{
			keepShopping.GET("", keepShoppingHandler.Get)
			keepShopping.PUT("/:id", keepShoppingHandler.Touch)
		}
	}

	return &Server{
		config: cfg,
		logger: log,
		router: router,
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.config.APIHost, s.config.APIPort)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting server on " + addr)
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	return s.server.Shutdown(ctx)
}

// Router returns the Gin router, used by handler tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
