package router

import (
	"bookswap-api/internal/handlers"
	"bookswap-api/internal/middleware"
	"bookswap-api/internal/models"
	"bookswap-api/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

type Services struct {
	Users         *service.UserService
	Catalog       *service.CatalogService
	Orders        *service.OrderService
	Tickets       *service.TicketService
	Finance       *service.FinanceService
	Notifications *service.NotificationService
	Loans         *service.LoanService
	Tokens        service.TokenProvider
}

func Router(s Services, log *zap.Logger) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	userHandler := handlers.NewUserHandler(s.Users, log)
	productHandler := handlers.NewProductHandler(s.Catalog, log)
	supplierHandler := handlers.NewSupplierHandler(s.Catalog, log)
	orderHandler := handlers.NewOrderHandler(s.Orders, log)
	ticketHandler := handlers.NewTicketHandler(s.Tickets, log)
	financeHandler := handlers.NewFinanceHandler(s.Finance, log)
	notificationHandler := handlers.NewNotificationHandler(s.Notifications, log)
	loanHandler := handlers.NewLoanHandler(s.Loans, log)

	authed := middleware.AuthRequired(s.Tokens, log)
	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleInventory)
	admin := middleware.RequireRoles(models.RoleAdmin)

	api := r.Group("/api")
	{
		users := api.Group("/users")
		{
			users.POST("/register", userHandler.Register)
			users.POST("/login", userHandler.Login)
			users.POST("/request-password-reset", userHandler.RequestPasswordReset)
			users.POST("/confirm-password-reset", userHandler.ConfirmPasswordReset)

			users.GET("", authed, admin, userHandler.List)
			users.GET("/:id", authed, userHandler.Get)
			users.PUT("/:id", authed, userHandler.Update)
			users.PUT("/:id/change-password", authed, userHandler.ChangePassword)
		}

		products := api.Group("/products")
		{
			products.GET("", productHandler.List)
			products.GET("/:id", productHandler.Get)
			products.POST("", authed, staff, productHandler.Create)
			products.PUT("/:id", authed, staff, productHandler.Update)
			products.DELETE("/:id", authed, staff, productHandler.Delete)
			products.POST("/sync-to-inventory", authed, staff, productHandler.SyncToInventory)
		}
		api.GET("/books", productHandler.ListBooks)

		suppliers := api.Group("/suppliers", authed, staff)
		{
			suppliers.GET("", supplierHandler.List)
			suppliers.GET("/:id", supplierHandler.Get)
			suppliers.POST("", supplierHandler.Create)
			suppliers.PUT("/:id", supplierHandler.Update)
			suppliers.DELETE("/:id", supplierHandler.Delete)
		}

		orders := api.Group("/orders", authed)
		{
			orders.POST("", orderHandler.Create)
			orders.GET("", orderHandler.List)
			orders.GET("/user/:userid", orderHandler.ListByUser)
			orders.GET("/:id", orderHandler.Get)
			orders.PUT("/:id", orderHandler.Edit)
			orders.DELETE("/:id", staff, orderHandler.Delete)
			orders.PATCH("/:id/approve", staff, orderHandler.Approve)
			orders.PATCH("/:id/reject", staff, orderHandler.Reject)
			orders.PATCH("/:id/cancel", orderHandler.Cancel)
			orders.PATCH("/:id/complete", staff, orderHandler.Complete)
			orders.PATCH("/:id/paid", staff, orderHandler.MarkPaid)
			orders.POST("/:id/dispute", orderHandler.OpenDispute)
			orders.PATCH("/:id/resolve-dispute", staff, orderHandler.ResolveDispute)
		}

		tickets := api.Group("/tickets")
		{
			tickets.POST("", ticketHandler.Create)
			tickets.GET("", authed, ticketHandler.List)
			tickets.GET("/stats/dashboard", authed, staff, ticketHandler.Stats)
			tickets.GET("/:id", authed, ticketHandler.Get)
			tickets.PATCH("/:id", authed, ticketHandler.Edit)
			tickets.DELETE("/:id", authed, ticketHandler.Delete)
			tickets.PATCH("/:id/status", authed, staff, ticketHandler.SetStatus)
			tickets.PATCH("/:id/assign", authed, staff, ticketHandler.Assign)
			tickets.PATCH("/:id/archive", authed, staff, ticketHandler.Archive)
			tickets.POST("/:id/responses", authed, ticketHandler.AddResponse)
		}

		payments := api.Group("/payments", authed)
		{
			payments.POST("", financeHandler.CreatePayment)
			payments.GET("", financeHandler.ListPayments)
			payments.PATCH("/:id/approve", admin, financeHandler.ApprovePayment)
			payments.PATCH("/:id/reject", admin, financeHandler.RejectPayment)
		}

		refunds := api.Group("/refunds", authed)
		{
			refunds.POST("", financeHandler.CreateRefund)
			refunds.GET("", financeHandler.ListRefunds)
			refunds.PATCH("/:id/approve", admin, financeHandler.ApproveRefund)
			refunds.PATCH("/:id/reject", admin, financeHandler.RejectRefund)
		}

		fines := api.Group("/fines", authed)
		{
			fines.GET("", financeHandler.ListFines)
			fines.PATCH("/:id/approve", admin, financeHandler.ApproveFine)
			fines.PATCH("/:id/reject", admin, financeHandler.RejectFine)
			fines.PATCH("/:id/pay", financeHandler.PayFine)
		}

		wallets := api.Group("/wallets", authed)
		{
			wallets.GET("", admin, financeHandler.ListWallets)
			wallets.GET("/me", financeHandler.MyWallet)
		}

		notifications := api.Group("/notifications", authed)
		{
			notifications.GET("", notificationHandler.List)
			notifications.PATCH("/:id/read", notificationHandler.MarkRead)
			notifications.PATCH("/read-all", notificationHandler.MarkAllRead)
		}

		loans := api.Group("/loans", authed)
		{
			loans.POST("", loanHandler.Borrow)
			loans.GET("", loanHandler.List)
			loans.PATCH("/:id/return", loanHandler.Return)
		}
	}

	return r
}
