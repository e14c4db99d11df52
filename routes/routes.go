package routes

import (
	"backend/configs"
	"backend/controllers"
	"backend/middlewares"
	"backend/repository"
	"backend/services"
	"backend/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *configs.Config) {
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	// Repositories
	userRepo := repository.NewUserRepository(db)
	restaurantRepo := repository.NewRestaurantRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	snapshotRepo := repository.NewCartSnapshotRepository(db)

	// Services
	authSvc := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL)
	cartSvc := services.NewCartService(snapshotRepo, menuRepo, restaurantRepo)
	orderSvc := services.NewOrderService(db, orderRepo, cartSvc)

	// Order-status feed
	hub := ws.NewOrderHub()
	go hub.Run()

	// Controllers
	authCtrl := controllers.NewAuthController(authSvc, cartSvc)
	restCtrl := controllers.NewRestaurantController(restaurantRepo, menuRepo)
	cartCtrl := controllers.NewCartController(cartSvc)
	orderCtrl := controllers.NewOrderController(orderSvc, restaurantRepo, hub)

	// Auth (public)
	a := r.Group("/auth")
	{
		a.POST("/register", authCtrl.Register)
		a.POST("/login", authCtrl.Login)
	}

	// Auth (protected)
	aAuth := a.Group("", middlewares.AuthMiddleware(cfg.JWTSecret))
	{
		aAuth.GET("/me", authCtrl.Me)
		aAuth.PATCH("/me", authCtrl.UpdateMe)
		aAuth.POST("/logout", authCtrl.Logout)
	}

	// Storefront (public)
	r.GET("/restaurants", restCtrl.List)
	r.GET("/restaurants/:id", restCtrl.Detail)
	r.GET("/restaurants/:id/menus", restCtrl.Menus)

	// Cart (user)
	cartGroup := r.Group("/cart", middlewares.AuthMiddleware(cfg.JWTSecret))
	{
		cartGroup.GET("", cartCtrl.Get)
		cartGroup.DELETE("", cartCtrl.Clear)
		cartGroup.POST("/items", cartCtrl.Add)
		cartGroup.DELETE("/items", cartCtrl.RemoveItem)
		cartGroup.PATCH("/items/qty", cartCtrl.UpdateQty)
		cartGroup.PATCH("/items/remark", cartCtrl.SetLineRemark)
		cartGroup.PATCH("/scenario", cartCtrl.SetScenario)
		cartGroup.PATCH("/target-time", cartCtrl.SetTargetTime)
		cartGroup.PATCH("/remark", cartCtrl.SetOrderRemark)
	}

	// Orders (user)
	u := r.Group("/", middlewares.AuthMiddleware(cfg.JWTSecret))
	{
		u.POST("/orders", orderCtrl.Create)
		u.GET("/orders/:id", orderCtrl.Detail)
	}

	// Profile
	profile := r.Group("/profile", middlewares.AuthMiddleware(cfg.JWTSecret))
	{
		profile.GET("/orders", orderCtrl.ListForMe)
	}

	// Partner (owner/admin)
	partner := r.Group("/partner", middlewares.AuthMiddleware(cfg.JWTSecret, "owner", "admin"))
	{
		partner.GET("/orders", orderCtrl.ListForRestaurant) // ?restaurantId=
		partner.PATCH("/orders/:id/status", orderCtrl.UpdateStatus)
	}

	// Live order-status feed
	r.GET("/ws/orders", middlewares.WSAuthMiddleware(cfg.JWTSecret), hub.HandleWebSocket)
}
