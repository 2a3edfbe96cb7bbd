// Package seed fills an empty database with a starter catalog and the admin account.
package seed

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/qs-lzh/movie-booking/internal/model"
	"github.com/qs-lzh/movie-booking/internal/repository"
	"github.com/qs-lzh/movie-booking/internal/service/domain"
)

const AdminUsername = "admin"

var starterMovies = []model.Movie{
	{Title: "Inception", Year: 2010, Director: "Christopher Nolan", Rating: 8, Format: "IMAX", Price: 12},
	{Title: "The Matrix", Year: 1999, Director: "The Wachowskis", Rating: 8, Format: "Standard", Price: 10},
	{Title: "Avengers: Endgame", Year: 2019, Director: "Anthony and Joe Russo", Rating: 8, Format: "3D", Price: 15},
}

type Result struct {
	MoviesInserted int
	AdminCreated   bool
}

// Run only inserts what is missing, running it again is a no-op.
func Run(ctx context.Context, db *gorm.DB, adminPassword string, logger *zap.Logger) (Result, error) {
	var res Result
	err := db.Transaction(func(tx *gorm.DB) error {
		movieRepo := repository.NewMovieRepoGorm(tx)
		userRepo := repository.NewUserRepoGorm(tx)

		count, err := movieRepo.Count(ctx)
		if err != nil {
			return fmt.Errorf("count movies: %w", err)
		}
		if count == 0 {
			for _, m := range starterMovies {
				movie := m
				if err := movieRepo.Create(ctx, &movie); err != nil {
					return fmt.Errorf("insert movie %q: %w", movie.Title, err)
				}
				res.MoviesInserted++
			}
		}

		_, err = userRepo.GetByName(ctx, AdminUsername)
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("look up admin: %w", err)
		}
		hash, err := domain.HashPassword(adminPassword)
		if err != nil {
			return fmt.Errorf("hash admin password: %w", err)
		}
		if err := userRepo.Create(ctx, &model.User{Name: AdminUsername, PasswordHash: hash, IsAdmin: true}); err != nil {
			return fmt.Errorf("insert admin: %w", err)
		}
		res.AdminCreated = true
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	logger.Info("seed finished",
		zap.Int("movies_inserted", res.MoviesInserted),
		zap.Bool("admin_created", res.AdminCreated))
	return res, nil
}
