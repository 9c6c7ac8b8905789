package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"slices"
	"strings"

	"api/config"
	"api/game"
	"api/migrations"
	"api/shared/logger"
	"api/storage"
	"api/wordpack"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func CreateServer(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.SetTrustedProxies([]string{"127.0.0.1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"})
	r.GET("/health", func(ctx *gin.Context) { ctx.String(200, "healthy") })

	r.Use(func(ctx *gin.Context) {
		origin := ctx.Request.Header.Get("Origin")

		if origin == "" || slices.Contains(allowedOrigins, origin) {
			ctx.Next()
			return
		}
		ctx.String(http.StatusForbidden, "forbidden origin")
		ctx.Abort()
	})

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			"Authorization",
			"Upgrade",
			"Connection",
			"Sec-WebSocket-Key",
			"Sec-WebSocket-Version",
			"Sec-WebSocket-Extensions",
			"Sec-WebSocket-Protocol",
		},
	}))

	return r
}

func main() {
	jsonLogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(jsonLogger)

	cfg := config.Load()
	if cfg.DEBUG {
		logger.SetDebug()
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	if cfg.ALLOWED_ORIGINS == "" {
		log.Fatal("Missing allowed origins")
	}
	allowedOrigins := strings.Split(cfg.ALLOWED_ORIGINS, ",")

	var store game.RoomStore
	var words game.WordSupply = wordpack.NewSupply()
	var restored int

	rooms := game.NewRoomRegistry(nil)

	if cfg.POSTGRES_URL != "" {
		migrations.Migrate(cfg.POSTGRES_URL)

		repo, err := storage.NewPostgresRepo(context.Background(), cfg.POSTGRES_URL)
		if err != nil {
			log.Fatal(err)
		}
		// no transport session survives a restart
		if err := repo.ResetConnections(context.Background()); err != nil {
			log.Fatal(err)
		}
		persisted, err := repo.LoadRooms(context.Background())
		if err != nil {
			log.Fatal(err)
		}
		store = repo
		words = repo
		restored = len(persisted)

		rooms = game.NewRoomRegistry(store)
		rooms.Restore(persisted)
	}

	engine := game.NewEngine(rooms, words)
	sessions := game.NewSessionRegistry()
	caster := game.NewBroadcaster(sessions)
	service := game.NewService(rooms, engine, sessions, caster)

	r := CreateServer(allowedOrigins)
	game.NewHandler(service, allowedOrigins).RegisterRoutes(r)

	slog.Info("server starting", "port", cfg.PORT, "restoredRooms", restored)
	r.Run(":" + cfg.PORT)
}
