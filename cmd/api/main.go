package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/satriadh/go-shop-api/internal/auth"
	"github.com/satriadh/go-shop-api/internal/catalog"
	"github.com/satriadh/go-shop-api/internal/config"
	"github.com/satriadh/go-shop-api/internal/httpx"
	kafkax "github.com/satriadh/go-shop-api/internal/kafka"
	"github.com/satriadh/go-shop-api/internal/orders"
	"github.com/satriadh/go-shop-api/internal/postgres"
	"github.com/satriadh/go-shop-api/internal/redisx"
	"github.com/satriadh/go-shop-api/internal/users"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("schema: %v", err)
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer
	prod := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderCreated, 1024)
	prod.Start(ctx)

	// Handlers
	secret := []byte(cfg.JWTSecret)
	router := httpx.NewRouter()

	ah := &httpx.AuthHandler{
		Users:      &users.Repo{DB: db},
		JWTSecret:  secret,
		JWTTTL:     cfg.JWTTTL,
		BcryptCost: cfg.BcryptCost,
	}
	ah.Register(router)

	ph := &httpx.ProductsHandler{Catalog: &catalog.Repo{DB: db}}
	ph.Register(router, func(next http.Handler) http.Handler {
		return auth.Authenticate(secret)(auth.RequireRole(users.RoleAdmin)(next))
	})

	oh := &httpx.OrdersHandler{
		Engine:   &orders.Engine{DB: db},
		Repo:     &orders.Repo{DB: db},
		Producer: prod,
		Redis:    rdb,
		Service:  cfg.ServiceName,
	}
	oh.Register(router, auth.Authenticate(secret))

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close() // close inbox -> flush & close writer
	prod.WaitClosed()
}
