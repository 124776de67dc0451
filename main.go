package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"

	"github.com/jhunter5/Backend/internal/api"
	"github.com/jhunter5/Backend/internal/cache"
	"github.com/jhunter5/Backend/internal/config"
	"github.com/jhunter5/Backend/internal/db"
	"github.com/jhunter5/Backend/internal/identity"
	"github.com/jhunter5/Backend/internal/services"
	"github.com/jhunter5/Backend/internal/storage"
	"github.com/jhunter5/Backend/internal/tasks"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rentals",
		Short: "Property rental platform backend",
	}
	rootCmd.AddCommand(serveCmd(), indexesCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	var runMode string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the background worker, or both",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch runMode {
			case "api", "bg", "all":
			default:
				return fmt.Errorf("invalid run mode %q: expected api, bg or all", runMode)
			}
			cfg, err := config.Load(runMode)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			return serve(cfg)
		},
	}
	cmd.Flags().StringVarP(&runMode, "mode", "m", "all", "Run mode: 'api', 'bg' (background tasks) or 'all'")
	return cmd
}

func indexesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "indexes",
		Short: "Create the MongoDB indexes and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load("indexes")
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			mongoClient, mongoDb, err := db.ConnectDB(cfg.MongoURI, cfg.MongoDbName)
			if err != nil {
				return err
			}
			defer db.DisconnectDB(mongoClient)

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()
			return services.EnsureIndexes(ctx, mongoDb)
		},
	}
}

func serve(cfg *config.Config) error {
	mongoClient, mongoDb, err := db.ConnectDB(cfg.MongoURI, cfg.MongoDbName)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := db.DisconnectDB(mongoClient); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}()

	indexCtx, cancelIndexes := context.WithTimeout(context.Background(), 30*time.Second)
	err = services.EnsureIndexes(indexCtx, mongoDb)
	cancelIndexes()
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	redisClient, err := cache.ConnectRedis(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := cache.DisconnectRedis(redisClient); err != nil {
			log.Printf("Error disconnecting from Redis: %v", err)
		}
	}()

	s3Storage, err := storage.NewS3Storage(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 storage: %w", err)
	}
	identityClient := identity.NewIdentityClient(cfg)
	locker := cache.NewRedisLocker(redisClient)

	taskClient := tasks.NewClient(redisClient)
	defer taskClient.Close()

	var wg sync.WaitGroup
	shutdownChan := make(chan struct{}, 1)

	// Service API (always runs)
	serviceSrv := &http.Server{
		Addr:    ":" + cfg.ServiceApiPort,
		Handler: api.SetupServiceRouter(mongoDb, shutdownChan),
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Printf("Service API listening on :%s", cfg.ServiceApiPort)
		if err := serviceSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Service API ListenAndServe error: %v", err)
		}
	}()

	var (
		mainApiSrv *http.Server
		taskSrv    *asynq.Server
		scheduler  *asynq.Scheduler
		stopSweep  = make(chan struct{})
	)

	log.Printf("Starting application in '%s' mode...", cfg.RunMode)

	if cfg.RunMode == "api" || cfg.RunMode == "all" {
		router, rateLimiter := api.SetupRouter(cfg, api.Dependencies{
			DB:       mongoDb,
			Storage:  s3Storage,
			Identity: identityClient,
			Queue:    tasks.NewQueue(taskClient),
			Locker:   locker,
		})
		go rateLimiter.RunCleanup(stopSweep)

		mainApiSrv = &http.Server{
			Addr:              ":" + cfg.ApiPort,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Printf("Main API listening on :%s", cfg.ApiPort)
			if err := mainApiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("Main API ListenAndServe error: %v", err)
			}
		}()
	}

	if cfg.RunMode == "bg" || cfg.RunMode == "all" {
		contractService := services.NewContractService(mongoDb, cfg, s3Storage, locker)
		processor := tasks.NewTaskProcessor(cfg, s3Storage, identityClient, contractService)

		scheduler, err = tasks.NewScheduler(redisClient, cfg.ContractSweepCron)
		if err != nil {
			return err
		}

		var mux *asynq.ServeMux
		taskSrv, mux = tasks.SetupServer(redisClient, processor)
		if err := taskSrv.Start(mux); err != nil {
			return fmt.Errorf("failed to start task server: %w", err)
		}
		if err := scheduler.Start(); err != nil {
			taskSrv.Shutdown()
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
	}

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("Received signal: %s. Shutting down gracefully...", sig)
	case <-shutdownChan:
		log.Println("Shutdown requested via Service API. Shutting down gracefully...")
	}

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()

	close(stopSweep)
	if err := serviceSrv.Shutdown(ctxShutdown); err != nil {
		log.Printf("Service API server shutdown error: %v", err)
	}
	if mainApiSrv != nil {
		if err := mainApiSrv.Shutdown(ctxShutdown); err != nil {
			log.Printf("Main API server shutdown error: %v", err)
		}
	}
	if scheduler != nil {
		scheduler.Shutdown()
	}
	if taskSrv != nil {
		taskSrv.Shutdown()
	}

	wg.Wait()
	log.Println("Server gracefully stopped")
	return nil
}
