package domain

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/qs-lzh/movie-booking/internal/auth"
	"github.com/qs-lzh/movie-booking/internal/model"
	"github.com/qs-lzh/movie-booking/internal/repository"
	"github.com/qs-lzh/movie-booking/internal/service"
)

type MovieService interface {
	ListMovies(ctx context.Context) ([]model.Movie, error)
	GetMovie(ctx context.Context, id uint) (*model.Movie, error)
	CreateMovie(ctx context.Context, caller auth.Caller, in MovieInput) (*model.Movie, error)
	UpdateMovie(ctx context.Context, caller auth.Caller, id uint, in MovieInput) (*model.Movie, error)
	DeleteMovie(ctx context.Context, caller auth.Caller, id uint) error
}

// MovieInput is the editable part of a movie.
type MovieInput struct {
	Title    string `validate:"required,max=255"`
	Year     int    `validate:"gt=1900,lt=2100"`
	Director string `validate:"required,max=255"`
	Rating   int    `validate:"min=1,max=10"`
	Format   string `validate:"required,max=32"`
	Price    int    `validate:"gt=0"`
}

func (in MovieInput) normalize() MovieInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Director = strings.TrimSpace(in.Director)
	in.Format = strings.TrimSpace(in.Format)
	return in
}

type movieService struct {
	db     *gorm.DB
	repo   repository.MovieRepo
	gate   *auth.Gate
	logger *zap.Logger
}

var _ MovieService = (*movieService)(nil)

func NewMovieService(db *gorm.DB, movieRepo repository.MovieRepo, gate *auth.Gate, logger *zap.Logger) *movieService {
	return &movieService{
		db:     db,
		repo:   movieRepo,
		gate:   gate,
		logger: logger,
	}
}

func (s *movieService) ListMovies(ctx context.Context) ([]model.Movie, error) {
	movies, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return movies, nil
}

func (s *movieService) GetMovie(ctx context.Context, id uint) (*model.Movie, error) {
	movie, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, service.ErrNotFound
		}
		return nil, err
	}
	return movie, nil
}

func (s *movieService) CreateMovie(ctx context.Context, caller auth.Caller, in MovieInput) (*model.Movie, error) {
	admin, err := s.gate.RequireAdmin(ctx, caller)
	if err != nil {
		return nil, err
	}
	in = in.normalize()
	if err := validateInput(in); err != nil {
		return nil, err
	}

	movie := &model.Movie{
		Title:    in.Title,
		Year:     in.Year,
		Director: in.Director,
		Rating:   in.Rating,
		Format:   in.Format,
		Price:    in.Price,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := ensureTitleFree(ctx, repo, in.Title, 0); err != nil {
			return err
		}
		return repo.Create(ctx, movie)
	})
	if err != nil {
		return nil, translateWriteErr(err)
	}

	s.logger.Info("movie created",
		zap.Uint("movie_id", movie.ID),
		zap.String("title", movie.Title),
		zap.String("admin", admin.Username))
	return movie, nil
}

func (s *movieService) UpdateMovie(ctx context.Context, caller auth.Caller, id uint, in MovieInput) (*model.Movie, error) {
	admin, err := s.gate.RequireAdmin(ctx, caller)
	if err != nil {
		return nil, err
	}
	in = in.normalize()

	var movie *model.Movie
	err = s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		existing, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		// a missing movie wins over a bad form
		if err := validateInput(in); err != nil {
			return err
		}
		if err := ensureTitleFree(ctx, repo, in.Title, id); err != nil {
			return err
		}

		existing.Title = in.Title
		existing.Year = in.Year
		existing.Director = in.Director
		existing.Rating = in.Rating
		existing.Format = in.Format
		existing.Price = in.Price
		if err := repo.Update(ctx, existing); err != nil {
			return err
		}
		movie = existing
		return nil
	})
	if err != nil {
		return nil, translateWriteErr(err)
	}

	s.logger.Info("movie updated",
		zap.Uint("movie_id", movie.ID),
		zap.String("title", movie.Title),
		zap.String("admin", admin.Username))
	return movie, nil
}

// DeleteMovie leaves the movie's bookings in place.
func (s *movieService) DeleteMovie(ctx context.Context, caller auth.Caller, id uint) error {
	admin, err := s.gate.RequireAdmin(ctx, caller)
	if err != nil {
		return err
	}
	n, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return service.ErrNotFound
	}

	s.logger.Info("movie deleted", zap.Uint("movie_id", id), zap.String("admin", admin.Username))
	return nil
}

// ensureTitleFree fails with service.ErrDuplicate when another movie than selfID owns title.
func ensureTitleFree(ctx context.Context, repo repository.MovieRepo, title string, selfID uint) error {
	other, err := repo.GetByTitle(ctx, title)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if other.ID != selfID {
		return service.ErrDuplicate
	}
	return nil
}

func translateWriteErr(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return service.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return service.ErrDuplicate
	default:
		return err
	}
}
