package app

import (
	"context"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/qs-lzh/movie-booking/config"
	"github.com/qs-lzh/movie-booking/internal/auth"
	"github.com/qs-lzh/movie-booking/internal/cache"
	"github.com/qs-lzh/movie-booking/internal/database"
	"github.com/qs-lzh/movie-booking/internal/metrics"
	"github.com/qs-lzh/movie-booking/internal/mq"
	"github.com/qs-lzh/movie-booking/internal/repository"
	"github.com/qs-lzh/movie-booking/internal/seed"
	"github.com/qs-lzh/movie-booking/internal/service/domain"
	"github.com/qs-lzh/movie-booking/internal/service/workflow"
)

type App struct {
	Config *config.Config

	DB      *gorm.DB
	Cache   *cache.RedisCache
	Logger  *zap.Logger
	MQConn  *amqp.Connection // nil when RABBIT_MQ_URL is empty
	Metrics *metrics.Metrics

	UserRepo    repository.UserRepo
	MovieRepo   repository.MovieRepo
	BookingRepo repository.BookingRepo

	Gate           *auth.Gate
	UserService    domain.UserService
	MovieService   domain.MovieService
	BookingService domain.BookingService

	BookingWorkflow *workflow.BookingWorkflow
	AuditWorkflow   *workflow.AuditWorkflow

	publisher *mq.Publisher
}

func New(config *config.Config, db *gorm.DB, cache *cache.RedisCache, mqConn *amqp.Connection, logger *zap.Logger) (*App, error) {
	userRepo := repository.NewUserRepoGorm(db)
	movieRepo := repository.NewMovieRepoGorm(db)
	bookingRepo := repository.NewBookingRepoGorm(db)

	userService := domain.NewUserService(db, userRepo, logger)
	gate := auth.NewGate(userService)
	movieService := domain.NewMovieService(db, movieRepo, gate, logger)
	bookingService := domain.NewBookingService(db, bookingRepo, movieRepo, gate, logger)

	var (
		publisher      *mq.Publisher
		eventPublisher workflow.EventPublisher = workflow.NoopPublisher{}
	)
	if mqConn != nil {
		var err error
		publisher, err = mq.NewPublisher(mqConn)
		if err != nil {
			return nil, fmt.Errorf("open publish channel: %w", err)
		}
		eventPublisher = publisher
	}

	m := metrics.New()

	return &App{
		Config:          config,
		DB:              db,
		Cache:           cache,
		Logger:          logger,
		MQConn:          mqConn,
		Metrics:         m,
		UserRepo:        userRepo,
		MovieRepo:       movieRepo,
		BookingRepo:     bookingRepo,
		Gate:            gate,
		UserService:     userService,
		MovieService:    movieService,
		BookingService:  bookingService,
		BookingWorkflow: workflow.NewBookingWorkflow(bookingService, eventPublisher, m, logger),
		AuditWorkflow:   workflow.NewAuditWorkflow(logger),
		publisher:       publisher,
	}, nil
}

// Init migrates the schema, seeds an empty database and declares the queues.
func (app *App) Init(ctx context.Context) error {
	if err := database.Migrate(app.DB); err != nil {
		return err
	}
	if _, err := seed.Run(ctx, app.DB, app.Config.AdminPassword, app.Logger); err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	// init rabbit mq
	if app.MQConn != nil {
		if err := mq.InitQueues(app.MQConn); err != nil {
			return fmt.Errorf("declare queues: %w", err)
		}
	}

	return nil
}

// RunConsumers blocks until ctx is done or a consumer fails.
func (app *App) RunConsumers(ctx context.Context) error {
	if app.MQConn == nil {
		app.Logger.Info("RABBIT_MQ_URL not set, booking events are not published")
		<-ctx.Done()
		return nil
	}
	return app.AuditWorkflow.Run(ctx, app.MQConn)
}

func (app *App) Close() error {
	var errs []error
	if app.publisher != nil {
		errs = append(errs, app.publisher.Close())
	}
	if app.MQConn != nil {
		errs = append(errs, app.MQConn.Close())
	}
	if app.Cache != nil {
		errs = append(errs, app.Cache.Close())
	}
	sqlDB, err := app.DB.DB()
	if err != nil {
		errs = append(errs, err)
	} else {
		errs = append(errs, sqlDB.Close())
	}
	return errors.Join(errs...)
}
