// Package platform opens the adapters selected by configuration so the
// server and the operator CLI share one wiring path.
package platform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	propertiesapp "stayhub/internal/app/handlers/properties"
	"stayhub/internal/app/middleware"
	appoutbox "stayhub/internal/app/outbox"
	"stayhub/internal/app/uow"
	domainauth "stayhub/internal/domain/auth"
	domainuser "stayhub/internal/domain/user"
	"stayhub/internal/infra/broker/kafka"
	rediscache "stayhub/internal/infra/cache/redis"
	"stayhub/internal/infra/config"
	"stayhub/internal/infra/db/gormdb"
	mongostore "stayhub/internal/infra/db/mongo"
	"stayhub/internal/infra/obs"
	"stayhub/internal/infra/outbox"
	"stayhub/internal/infra/schedule"
	"stayhub/internal/infra/storage/memory"
	"stayhub/internal/infra/storage/s3"
)

// Platform holds every opened adapter. Optional pieces are nil when their
// backend is not configured.
type Platform struct {
	UoW      uow.UoWFactory
	Users    domainuser.Repository
	Sessions domainauth.SessionStore
	// Outbox is flushed after each committed command.
	Outbox      appoutbox.Outbox
	Relay       outbox.Store
	Janitor     schedule.OutboxJanitor
	Purger      schedule.SessionPurger
	Idempotency middleware.IdempotencyStore
	Uploader    propertiesapp.MediaUploader
	Producer    outbox.Producer
	Envelope    outbox.Envelope
	Checks      map[string]obs.Check
	DB          *gorm.DB

	closers []func(context.Context) error
}

type producerCloser interface {
	outbox.Producer
	Close() error
}

// Open connects to the configured backends. On error, whatever was opened
// is closed again.
func Open(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Platform, error) {
	p := &Platform{
		Checks:   map[string]obs.Check{},
		Envelope: outbox.Envelope{TopicPrefix: cfg.KafkaTopicPrefix},
	}
	if err := p.open(ctx, cfg, logger); err != nil {
		_ = p.Close(context.Background())
		return nil, err
	}
	return p, nil
}

func (p *Platform) open(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	producer, err := openProducer(cfg, logger)
	if err != nil {
		return err
	}
	p.Producer = producer
	p.closers = append(p.closers, func(context.Context) error { return producer.Close() })

	if err := p.openStorage(cfg, logger); err != nil {
		return err
	}
	if err := p.openSessions(ctx, cfg, logger); err != nil {
		return err
	}
	if err := p.openIdempotency(ctx, cfg, logger); err != nil {
		return err
	}
	return p.openUploader(cfg, logger)
}

func openProducer(cfg config.Config, logger *slog.Logger) (producerCloser, error) {
	if len(cfg.KafkaBrokers) == 0 {
		return kafka.LogProducer{Logger: logger}, nil
	}
	producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	if logger != nil {
		logger.Info("kafka producer connected", "brokers", cfg.KafkaBrokers)
	}
	return producer, nil
}

func (p *Platform) openStorage(cfg config.Config, logger *slog.Logger) error {
	if cfg.DBDriver == config.DriverMemory || cfg.DBDriver == "" {
		box := memory.NewOutbox(outbox.RecordPublisher{Producer: p.Producer, Envelope: p.Envelope})
		p.UoW = memory.NewFactory(memory.NewStore(), box)
		p.Users = memory.NewUserRepository()
		p.Outbox = box
		if logger != nil {
			logger.Warn("using in-memory storage; data is lost on restart")
		}
		return nil
	}
	db, err := gormdb.Open(cfg.DBDriver, cfg.DBDSN, logger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	p.DB = db
	p.closers = append(p.closers, func(context.Context) error { return gormdb.Close(db) })
	if err := gormdb.Migrate(db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	store := gormdb.NewOutboxStore(db)
	p.UoW = gormdb.Factory{DB: db, ReadOnlyTx: cfg.DBDriver != config.DriverSQLite}
	p.Users = gormdb.NewUserRepository(db)
	p.Outbox = store
	p.Relay = store
	p.Janitor = store
	p.Checks["database"] = func(ctx context.Context) error { return gormdb.Ping(ctx, db) }
	return nil
}

func (p *Platform) openSessions(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	if cfg.RedisAddr == "" {
		store := memory.NewSessionStore()
		p.Sessions = store
		p.Purger = store
		return nil
	}
	client := rediscache.NewClient(rediscache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	p.closers = append(p.closers, func(context.Context) error { return client.Close() })
	store := rediscache.NewSessionStore(client)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	p.Sessions = store
	p.Purger = store
	p.Checks["redis"] = store.Ping
	if logger != nil {
		logger.Info("redis session store connected", "addr", cfg.RedisAddr)
	}
	return nil
}

func (p *Platform) openIdempotency(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	if cfg.MongoURI == "" {
		store := memory.NewIdempotencyStore()
		store.TTL = cfg.IdempotencyTTL
		p.Idempotency = store
		return nil
	}
	client, err := mongostore.New(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return fmt.Errorf("mongo: %w", err)
	}
	p.closers = append(p.closers, client.Close)
	store, err := mongostore.NewIdempotencyStore(ctx, client.DB, cfg.IdempotencyTTL)
	if err != nil {
		return fmt.Errorf("mongo idempotency store: %w", err)
	}
	p.Idempotency = store
	p.Checks["mongo"] = client.Ping
	if logger != nil {
		logger.Info("mongo idempotency store connected", "database", cfg.MongoDB)
	}
	return nil
}

func (p *Platform) openUploader(cfg config.Config, logger *slog.Logger) error {
	if cfg.S3Endpoint == "" {
		p.Uploader = s3.NoopUploader{}
		return nil
	}
	client, err := s3.NewClient(s3.Options{
		Endpoint:       cfg.S3Endpoint,
		PublicEndpoint: cfg.S3PublicEndpoint,
		AccessKey:      cfg.S3AccessKey,
		SecretKey:      cfg.S3SecretKey,
		Bucket:         cfg.S3Bucket,
		UseSSL:         cfg.S3UseSSL,
	}, logger)
	if err != nil {
		return fmt.Errorf("s3: %w", err)
	}
	p.Uploader = client
	p.Checks["s3"] = client.Ping
	return nil
}

// Close releases adapters in reverse opening order.
func (p *Platform) Close(ctx context.Context) error {
	var errs []error
	for i := len(p.closers) - 1; i >= 0; i-- {
		if err := p.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	p.closers = nil
	return errors.Join(errs...)
}
