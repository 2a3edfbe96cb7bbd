package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/qs-lzh/movie-booking/internal/app"
	"github.com/qs-lzh/movie-booking/internal/cache"
	"github.com/qs-lzh/movie-booking/internal/handler"
	"github.com/qs-lzh/movie-booking/internal/mq"
)

const shutdownTimeout = 10 * time.Second

type ServeOptions struct {
	*RootOptions
	Addr string
}

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Migrate, seed and start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (overrides ADDR)")

	return cmd
}

func runServe(ctx context.Context, opts *ServeOptions) error {
	cfg, logger, err := bootstrap(opts.RootOptions)
	if err != nil {
		return err
	}
	defer logger.Sync()
	if opts.Addr != "" {
		cfg.Addr = opts.Addr
	}
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDatabase(cfg, logger)
	if err != nil {
		return err
	}
	redisCache, err := cache.NewRedisCache(cfg.CacheURL)
	if err != nil {
		closeDatabase(db, logger)
		return err
	}
	var mqConn *amqp.Connection
	if cfg.MQURL != "" {
		mqConn, err = mq.NewMQConn(cfg.MQURL)
		if err != nil {
			closeDatabase(db, logger)
			_ = redisCache.Close()
			return fmt.Errorf("connect to rabbitmq: %w", err)
		}
	}

	a, err := app.New(cfg, db, redisCache, mqConn, logger)
	if err != nil {
		closeDatabase(db, logger)
		_ = redisCache.Close()
		if mqConn != nil {
			_ = mqConn.Close()
		}
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("failed to close app", zap.Error(err))
		}
	}()

	if err := a.Init(ctx); err != nil {
		return err
	}

	router, err := handler.NewRouter(a)
	if err != nil {
		return fmt.Errorf("build router: %w", err)
	}
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.RunConsumers(ctx)
	})

	g.Go(func() error {
		logger.Info("http server listening", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
