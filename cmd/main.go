package main

import (
	"github.com/gin-gonic/gin"

	"SchoolAPI/internal/app"
	"SchoolAPI/internal/config"
)

func main() {
	gin.SetMode(gin.ReleaseMode)
	cfg := config.MustLoad()
	app.Run(cfg)

}
