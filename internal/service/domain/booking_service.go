package domain

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/qs-lzh/movie-booking/internal/auth"
	"github.com/qs-lzh/movie-booking/internal/model"
	"github.com/qs-lzh/movie-booking/internal/repository"
	"github.com/qs-lzh/movie-booking/internal/service"
)

type BookingService interface {
	ViewBookingPage(ctx context.Context, caller auth.Caller, movieID uint) (*model.Movie, error)
	CreateBooking(ctx context.Context, caller auth.Caller, in BookingInput) (*model.Booking, error)
	ListBookings(ctx context.Context, caller auth.Caller) ([]model.BookingView, error)
	CancelBooking(ctx context.Context, caller auth.Caller, bookingID uint) (*model.Booking, error)
	ListAllBookings(ctx context.Context, caller auth.Caller) ([]model.BookingView, error)
}

type BookingInput struct {
	MovieID  uint
	Showtime string `validate:"required,max=255"`
	Quantity int    `validate:"gt=0,max=1000"`
}

type bookingService struct {
	db        *gorm.DB
	repo      repository.BookingRepo
	movieRepo repository.MovieRepo
	gate      *auth.Gate
	logger    *zap.Logger
}

var _ BookingService = (*bookingService)(nil)

func NewBookingService(
	db *gorm.DB,
	bookingRepo repository.BookingRepo,
	movieRepo repository.MovieRepo,
	gate *auth.Gate,
	logger *zap.Logger,
) *bookingService {
	return &bookingService{
		db:        db,
		repo:      bookingRepo,
		movieRepo: movieRepo,
		gate:      gate,
		logger:    logger,
	}
}

func (s *bookingService) ViewBookingPage(ctx context.Context, caller auth.Caller, movieID uint) (*model.Movie, error) {
	if _, err := auth.RequireAuthenticated(caller); err != nil {
		return nil, err
	}
	movie, err := s.movieRepo.GetByID(ctx, movieID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, service.ErrNotFound
		}
		return nil, err
	}
	return movie, nil
}

// CreateBooking prices the booking from the movie row read inside the same
// transaction, later price changes never touch Total.
func (s *bookingService) CreateBooking(ctx context.Context, caller auth.Caller, in BookingInput) (*model.Booking, error) {
	identity, err := auth.RequireAuthenticated(caller)
	if err != nil {
		return nil, err
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Showtime) == "" {
		return nil, fmt.Errorf("%w: showtime is required", service.ErrValidation)
	}

	var booking *model.Booking
	err = s.db.Transaction(func(tx *gorm.DB) error {
		movie, err := s.movieRepo.WithTx(tx).GetByID(ctx, in.MovieID)
		if err != nil {
			return err
		}
		if movie.Price > 0 && in.Quantity > math.MaxInt/movie.Price {
			return fmt.Errorf("%w: total for %d tickets is too large", service.ErrValidation, in.Quantity)
		}
		booking = &model.Booking{
			UserID:   identity.UserID,
			MovieID:  movie.ID,
			Showtime: in.Showtime,
			Quantity: in.Quantity,
			Total:    movie.Price * in.Quantity,
		}
		return s.repo.WithTx(tx).Create(ctx, booking)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, service.ErrNotFound
		}
		return nil, err
	}

	s.logger.Info("booking created",
		zap.Uint("booking_id", booking.ID),
		zap.String("username", identity.Username),
		zap.Uint("movie_id", booking.MovieID),
		zap.Int("total", booking.Total))
	return booking, nil
}

func (s *bookingService) ListBookings(ctx context.Context, caller auth.Caller) ([]model.BookingView, error) {
	identity, err := auth.RequireAuthenticated(caller)
	if err != nil {
		return nil, err
	}
	return s.repo.ListViewsByUserID(ctx, identity.UserID)
}

// CancelBooking deletes the caller's booking and returns it. A booking that
// does not exist or belongs to someone else is left alone and nil is returned.
func (s *bookingService) CancelBooking(ctx context.Context, caller auth.Caller, bookingID uint) (*model.Booking, error) {
	identity, err := auth.RequireAuthenticated(caller)
	if err != nil {
		return nil, err
	}

	var canceled *model.Booking
	err = s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		booking, err := repo.GetByID(ctx, bookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if booking.UserID != identity.UserID {
			return nil
		}
		n, err := repo.DeleteByIDAndUserID(ctx, bookingID, identity.UserID)
		if err != nil {
			return err
		}
		if n > 0 {
			canceled = booking
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if canceled == nil {
		s.logger.Debug("cancel ignored", zap.Uint("booking_id", bookingID), zap.String("username", identity.Username))
		return nil, nil
	}
	s.logger.Info("booking canceled", zap.Uint("booking_id", bookingID), zap.String("username", identity.Username))
	return canceled, nil
}

func (s *bookingService) ListAllBookings(ctx context.Context, caller auth.Caller) ([]model.BookingView, error) {
	if _, err := s.gate.RequireAdmin(ctx, caller); err != nil {
		return nil, err
	}
	return s.repo.ListAllViews(ctx)
}
