package router

import (
	"github.com/gin-gonic/gin"
	"github.com/restobook/restobook/controllers"
	"github.com/restobook/restobook/middlewares"
	"github.com/restobook/restobook/services"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	reservationSvc := services.NewReservationService(db)
	reservationSvc.Mailer = services.NewMailerFromEnv()

	userCtrl := controllers.NewUserController(db)
	tableCtrl := controllers.NewTableController(db)
	availabilityCtrl := controllers.NewAvailabilityController(db)
	reservationCtrl := controllers.NewReservationController(db, reservationSvc)
	categoryCtrl := controllers.NewMenuCategoryController(db)
	menuCtrl := controllers.NewMenuController(db)
	adminCtrl := controllers.NewAdminController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// Browsing requires no account
	r.GET("/availability", availabilityCtrl.GetAvailability)
	r.GET("/menu", menuCtrl.GetPublicMenu)
	r.GET("/categories", categoryCtrl.GetAllCategories)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/")
	auth.Use(middlewares.AuthMiddleware())
	{
		auth.GET("/profile", userCtrl.GetProfile)
		auth.POST("/logout", userCtrl.Logout)

		auth.POST("/reservations", reservationCtrl.CreateReservation)
		auth.GET("/reservations/my", reservationCtrl.MyReservations)
		auth.PATCH("/reservations/:reservation_id", reservationCtrl.EditReservation)
		auth.POST("/reservations/:reservation_id/cancel", reservationCtrl.CancelReservation)
	}

	// ----------------------------------------------------------------
	//                      ADMIN ROUTES
	// ----------------------------------------------------------------
	admin := r.Group("/admin")
	admin.Use(middlewares.AuthMiddleware(), middlewares.RequireAdmin())
	{
		admin.GET("/dashboard", adminCtrl.GetDashboardStats)

		admin.GET("/reservations", reservationCtrl.ListReservations)
		admin.POST("/reservations/:reservation_id/confirm", reservationCtrl.ConfirmReservation)
		admin.POST("/reservations/:reservation_id/refuse", reservationCtrl.RefuseReservation)

		admin.POST("/tables", tableCtrl.CreateTable)
		admin.GET("/tables", tableCtrl.GetAllTables)
		admin.GET("/tables/:table_id", tableCtrl.GetTableByID)
		admin.PATCH("/tables/:table_id", tableCtrl.UpdateTable)
		admin.DELETE("/tables/:table_id", tableCtrl.DeleteTable)

		admin.POST("/categories", categoryCtrl.CreateCategory)
		admin.PATCH("/categories/:category_id", categoryCtrl.UpdateCategory)
		admin.DELETE("/categories/:category_id", categoryCtrl.DeleteCategory)

		admin.GET("/menus", menuCtrl.GetAllMenuItems)
		admin.POST("/menus", menuCtrl.CreateMenuItem)
		admin.PATCH("/menus/:menu_id", menuCtrl.UpdateMenuItem)
		admin.DELETE("/menus/:menu_id", menuCtrl.DeleteMenuItem)
	}

	return r
}
