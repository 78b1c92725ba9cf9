package server

import (
	"github.com/gin-gonic/gin"
	"github.com/maximthomas/legacybridge/pkg/config"
	"github.com/maximthomas/legacybridge/pkg/controller"
	"github.com/maximthomas/legacybridge/pkg/middleware"
	cors "github.com/rs/cors/wrapper/gin"
)

func SetupRouter(conf config.Config) *gin.Engine {
	router := gin.Default()
	c := cors.New(cors.Options{
		AllowedOrigins:   conf.Server.Cors.AllowedOrigins,
		AllowCredentials: true,
		Debug:            gin.IsDebugging(),
	})

	ri := middleware.NewRequestIDMiddleware()

	router.Use(c, ri)
	var uc = controller.NewUserController()

	v1 := router.Group("/legacybridge/v1")
	{
		users := v1.Group("/users")
		{
			route := "/:name"
			users.GET(route, uc.GetUser)
			users.POST(route+"/validatepassword", uc.ValidatePassword)
		}
	}
	return router
}

func RunServer() {
	ac := config.GetConfig()
	router := SetupRouter(ac)
	err := router.Run(":" + "8080")
	if err != nil {
		panic(err)
	}
}
