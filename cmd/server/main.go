package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"

	"github.com/rl1809/cafeteria-service/internal/adapter/handler"
	"github.com/rl1809/cafeteria-service/internal/adapter/storage"
	"github.com/rl1809/cafeteria-service/internal/config"
	"github.com/rl1809/cafeteria-service/internal/core/domain"
	"github.com/rl1809/cafeteria-service/internal/core/service"
	"github.com/rl1809/cafeteria-service/internal/port"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()

	// Initialize MySQL
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("failed to connect mysql: %v", err)
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping mysql: %v", err)
	}
	log.Println("connected to mysql")

	if err := storage.RunMigrations(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}
	log.Println("schema up to date")

	// Initialize Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		PoolSize: 100,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	log.Println("connected to redis")

	// Initialize adapters
	redisAdapter := storage.NewRedisAdapter(rdb, cfg.TransitionTTL)
	mysqlAdapter := storage.NewMySQLAdapter(db)

	// Initialize services
	inventoryService := service.NewInventoryService(mysqlAdapter, mysqlAdapter, redisAdapter, cfg.QueueSize)
	menuService := service.NewMenuService(mysqlAdapter)

	// Start audit worker pool
	var wg sync.WaitGroup
	for i := 0; i < cfg.WorkerCount; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			auditWorkerLoop(id, inventoryService.AuditQueue(), mysqlAdapter)
		}(i)
	}
	log.Printf("started %d audit workers", cfg.WorkerCount)

	// Initialize HTTP server
	httpHandler := handler.NewHTTPHandler(inventoryService, menuService)
	mux := http.NewServeMux()
	httpHandler.Register(mux)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("HTTP server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	// Stop HTTP server
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	log.Println("HTTP server stopped")

	// Close audit queue and wait for workers to drain it
	inventoryService.Close()
	wg.Wait()
	log.Println("audit workers stopped")

	// Close connections
	rdb.Close()
	db.Close()
	log.Println("connections closed")
}

func auditWorkerLoop(id int, queue <-chan domain.AuditEntry, db port.AuditRepository) {
	for entry := range queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)

		if err := db.InsertAuditEntry(ctx, entry); err != nil {
			log.Printf("audit worker %d: failed to save entry %s (%s on %s): %v",
				id, entry.ID, entry.Action, entry.ItemID, err)
		}

		cancel()
	}
}
