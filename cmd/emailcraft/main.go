package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/07fahim/EmailCraft-AI/internal/api"
	"github.com/07fahim/EmailCraft-AI/internal/batch"
	"github.com/07fahim/EmailCraft-AI/internal/cache"
	"github.com/07fahim/EmailCraft-AI/internal/config"
	"github.com/07fahim/EmailCraft-AI/internal/db"
	dbmigrate "github.com/07fahim/EmailCraft-AI/internal/db/migrate"
	"github.com/07fahim/EmailCraft-AI/internal/genclient"
	"github.com/07fahim/EmailCraft-AI/internal/metrics"
	"github.com/07fahim/EmailCraft-AI/internal/model"
	"github.com/07fahim/EmailCraft-AI/internal/scheduler"
)

func main() {
	configPath := flag.String("config", "emailcraft.yaml", "path to config YAML")
	flag.Parse()

	// Local development convenience; a missing .env is fine.
	_ = godotenv.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Init DB (optional, skip if no database_url)
	var store db.Store
	if cfg.GeneralSettings.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.GeneralSettings.DatabaseURL)
		if err != nil {
			log.Fatalf("connect database: %v", err)
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			log.Fatalf("ping database: %v", err)
		}
		log.Println("database connected")

		if err := dbmigrate.RunMigrations(ctx, pool); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
		log.Println("migrations complete")

		store = db.New(pool)
	}

	// Init cache (config-driven)
	var cacheBackend cache.Cache
	var redisClient redis.UniversalClient
	if cfg.CacheSettings.Enabled {
		if cfg.CacheSettings.Type == "redis" {
			rc := redis.NewClient(&redis.Options{
				Addr:     cfg.CacheSettings.Addr,
				Password: cfg.CacheSettings.Password,
			})
			if err := rc.Ping(ctx).Err(); err != nil {
				log.Printf("warn: redis not available, using memory cache: %v", err)
				cacheBackend = cache.NewMemoryCache()
			} else {
				log.Println("redis connected")
				redisClient = rc
				cacheBackend = cache.NewRedisCache(redisClient)
			}
		} else {
			cacheBackend = cache.NewMemoryCache()
		}
	}

	// Generation client, optionally wrapped with the response cache.
	var gen genclient.Generator = genclient.New(genclient.Options{
		BaseURL:    cfg.GenerationService.BaseURL,
		APIKey:     cfg.GenerationService.APIKey,
		Timeout:    time.Duration(cfg.GenerationService.TimeoutSeconds) * time.Second,
		MaxRetries: cfg.GenerationService.MaxRetries,
	})
	if cacheBackend != nil {
		ttl := time.Duration(cfg.CacheSettings.TTLSeconds) * time.Second
		gen = cache.NewCachingGenerator(gen, cacheBackend, ttl)
		log.Printf("generation cache enabled (ttl=%s)", ttl)
	}

	collector := metrics.NewCollector()

	handlers := api.NewHandlers()
	handlers.Gen = gen
	handlers.DB = store
	handlers.Cache = cacheBackend
	handlers.Metrics = collector
	handlers.MaxRows = cfg.BatchSettings.MaxRows
	handlers.SkipPreview = cfg.BatchSettings.ErrorPreview

	// Batch registry: per-row outcomes flow into metrics and history,
	// terminal states into the batch counter.
	registry := batch.NewRegistry(batch.RegistryOptions{
		Generator:    gen,
		Delay:        time.Duration(cfg.BatchSettings.RowDelaySeconds) * time.Second,
		ErrorPreview: cfg.BatchSettings.ErrorPreview,
		OnOutcome: func(runID string, out model.Outcome) {
			collector.BatchRow(string(out.Status))
			collector.EmailGenerated(string(out.Status), "batch")
			recordBatchOutcome(store, runID, out)
		},
		OnDone: func(runID string, sum model.BatchSummary) {
			result := "done"
			if sum.WasCancelled {
				result = "cancelled"
			}
			collector.BatchFinished(result)
			log.Printf("batch %s finished: %d/%d succeeded, avg score %.2f", runID, sum.Succeeded, sum.Processed, sum.AverageScore)
		},
	})
	handlers.Registry = registry

	// Background jobs
	sched := scheduler.New()
	if store != nil && cfg.GeneralSettings.HistoryRetentionDays > 0 {
		retention := time.Duration(cfg.GeneralSettings.HistoryRetentionDays) * 24 * time.Hour
		var retentionJob scheduler.Job = &scheduler.HistoryRetentionJob{DB: store, Retention: retention}
		if redisClient != nil {
			lock := scheduler.NewDistributedLock(redisClient)
			retentionJob = scheduler.NewWithLock(retentionJob, lock, 5*time.Minute)
		}
		sched.AddWithStartupRun(retentionJob, 24*time.Hour)
	}
	sched.Add(&scheduler.BatchPruneJob{Registry: registry, MaxAge: 24 * time.Hour}, time.Hour)
	sched.Start()

	go metrics.ListenAndServe(ctx)

	srv := api.NewServer(handlers)

	addr := fmt.Sprintf(":%d", cfg.GeneralSettings.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      srv.Router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		log.Println("shutting down...")
		sched.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown error: %v", err)
		}
		cancel()
	}()

	log.Printf("emailcraft listening on %s", addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}

// recordBatchOutcome persists one batch row to history (fire-and-forget).
func recordBatchOutcome(store db.Store, runID string, out model.Outcome) {
	if store == nil {
		return
	}

	rowNum := int32(out.RowNumber)
	arg := db.InsertEmailGenerationParams{
		BatchID:       &runID,
		RowNumber:     &rowNum,
		JobURL:        out.Request.JobURL,
		Role:          out.Request.Role,
		Industry:      out.Request.Industry,
		CompanyName:   out.Request.CompanyName,
		RecipientName: out.Request.RecipientName,
		Tone:          out.Request.Tone,
		Status:        string(out.Status),
		Error:         out.Error,
	}
	if out.Email != nil {
		arg.SubjectLine = out.Email.Email.SubjectLine
		arg.Body = out.Email.Email.Body
		arg.CTA = out.Email.Email.CTA
		arg.OverallScore = out.Email.Evaluation.OverallScore
		arg.InitialScore = out.Email.InitialScore
		arg.OptimizationApplied = out.Email.OptimizationApplied
	}

	go func() {
		ctx, cancelFn := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelFn()
		_, _ = store.InsertEmailGeneration(ctx, arg)
	}()
}
