package handlers

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/wiseaidev/stegano/config"
	"github.com/wiseaidev/stegano/pngparser"
)

// NewRouter wires middleware and the /api/v1 routes.
func NewRouter(cfg config.Config, logger *logrus.Logger) (*gin.Engine, error) {
	chunkType, err := pngparser.ParseChunkType(cfg.Stego.ChunkType)
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), RequestLogger(logger))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.Server.AllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", RequestIDHeader}
	corsConfig.ExposeHeaders = []string{
		"X-Stego-Offset", "X-Stego-Format", "X-Stego-Payload-Length", "X-Stego-Length",
		RequestIDHeader, "Content-Disposition",
	}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	stegoHandler := NewStegoHandler(cfg.MaxUploadBytes(), chunkType, logger)

	api := router.Group("/api/v1")
	{
		api.GET("/health", stegoHandler.HealthCheck)
		api.POST("/meta", stegoHandler.DescribeImage)

		stego := api.Group("/stego")
		{
			stego.POST("/inject", stegoHandler.InjectPayload)
			stego.POST("/extract", stegoHandler.ExtractPayload)
		}
	}

	return router, nil
}
