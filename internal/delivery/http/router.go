package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"SchoolAPI/internal/delivery/http/controllers"
	"SchoolAPI/internal/delivery/http/controllers/account"
	"SchoolAPI/internal/delivery/http/controllers/middleware"
	"SchoolAPI/internal/delivery/http/controllers/users"
	"SchoolAPI/internal/models"
	"SchoolAPI/internal/service"
	"SchoolAPI/pkg/logger"
)

func InitRoutes(l logger.Log, u service.Collection) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	config := cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	r.Use(cors.New(config))
	r.Use(middleware.MetricsMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	statusController := controllers.NewStatusHandler()
	accountController := account.NewAccountHandler(l, u.AccountService)
	usersController := users.NewUsersHandler(l, u.AccountService)
	authMw := middleware.NewAuthMiddlewareProvider(l, u.AccountService)

	api := r.Group("/api", middleware.LoggingMiddleware(l))
	{
		api.GET("/status", statusController.Status)

		acc := api.Group("/Account")
		{
			acc.POST("/Register", accountController.Register)
			acc.POST("/Login", accountController.Login)
		}

		usr := api.Group("/Users", authMw.AuthMiddleware)
		{
			reader := usr.Group("", middleware.RequireRoles(models.ReaderRole))
			{
				reader.GET("", usersController.Gets)
				reader.GET("/GetRolesByUserId/:userId", usersController.GetRolesByUserId)
			}

			writer := usr.Group("", middleware.RequireRoles(models.WriterRole))
			{
				writer.POST("/AddRole", usersController.AddRole)
				writer.POST("/AssignRole", usersController.AssignRole)
			}

			editor := usr.Group("", middleware.RequireRoles(models.EditorRole))
			{
				editor.DELETE("/RemoveRole", usersController.RemoveRole)
			}
		}
	}
	return r
}
