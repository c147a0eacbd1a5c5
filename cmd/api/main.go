package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/memberx/deals-api/internal/cache"
	"github.com/memberx/deals-api/internal/config"
	"github.com/memberx/deals-api/internal/db"
	"github.com/memberx/deals-api/internal/routes"
)

func main() {
	cfg := config.Load()

	database := db.NewDB(cfg)
	cacheClient := cache.New(cfg.RedisURL)

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	routes.Setup(r, database, cfg, cacheClient)

	log.Printf("deals api listening on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
