package main

import (
	"context"
	"time"

	"github.com/apex/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gaiaeye/analytics"
	"gaiaeye/cluster"
	"gaiaeye/llm"
	"gaiaeye/provider"
	"gaiaeye/terroir"
)

type App struct {
	cfg     Config
	mongo   *mongo.Client
	db      *mongo.Database
	users   *mongo.Collection
	aois    *mongo.Collection
	reports *mongo.Collection

	engine    *analytics.Engine
	terroir   *terroir.Engine
	narrator  *llm.Client
	stats     provider.Provider
	clusterer cluster.Clusterer
}

func newApp(ctx context.Context, cfg Config) (*App, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, err
	}
	db := client.Database(cfg.MongoDB)

	engineCfg := analytics.DefaultConfig()
	if cfg.EngineConfigPath != "" {
		engineCfg, err = analytics.LoadConfig(cfg.EngineConfigPath)
		if err != nil {
			return nil, err
		}
	}
	engine, err := analytics.NewEngine(engineCfg)
	if err != nil {
		return nil, err
	}

	ter, err := terroir.NewEngine()
	if err != nil {
		return nil, err
	}

	var stats provider.Provider = provider.NewHTTPProvider(cfg.ProviderURI)
	if cfg.RedisAddr != "" {
		rdb, err := provider.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			// Cache is an optimization; run without it.
			log.WithError(err).Warn("redis unavailable, statistics cache disabled")
		} else {
			stats = provider.NewCachedProvider(stats, rdb, cfg.CacheTTL)
		}
	}

	app := &App{
		cfg:       cfg,
		mongo:     client,
		db:        db,
		users:     db.Collection("users"),
		aois:      db.Collection("aois"),
		reports:   db.Collection("reports"),
		engine:    engine,
		terroir:   ter,
		narrator:  llm.NewClient(cfg.OllamaURL, "ollama", cfg.OllamaModel),
		stats:     stats,
		clusterer: cluster.NewKMeans(),
	}

	// Indexes
	if _, err := app.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return nil, err
	}
	if _, err := app.aois.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: -1}},
	}); err != nil {
		return nil, err
	}
	if _, err := app.reports.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "aoiId", Value: 1}, {Key: "createdAt", Value: -1}},
	}); err != nil {
		return nil, err
	}

	return app, nil
}

func (a *App) close(ctx context.Context) { _ = a.mongo.Disconnect(ctx) }

// narrationContext bounds a single LLM call; the fallback writer takes
// over when the deadline passes.
func narrationContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, 60*time.Second)
}
