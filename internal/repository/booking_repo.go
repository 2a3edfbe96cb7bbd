package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/qs-lzh/movie-booking/internal/model"
)

type BookingRepo interface {
	WithTx(tx *gorm.DB) BookingRepo
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id uint) (*model.Booking, error)
	ListViewsByUserID(ctx context.Context, userID uint) ([]model.BookingView, error)
	ListAllViews(ctx context.Context) ([]model.BookingView, error)
	DeleteByIDAndUserID(ctx context.Context, id, userID uint) (int, error)
}

type bookingRepoGorm struct {
	db *gorm.DB
}

var _ BookingRepo = (*bookingRepoGorm)(nil)

func NewBookingRepoGorm(db *gorm.DB) *bookingRepoGorm {
	return &bookingRepoGorm{
		db: db,
	}
}

func (r *bookingRepoGorm) WithTx(tx *gorm.DB) BookingRepo {
	return &bookingRepoGorm{
		db: tx,
	}
}

func (r *bookingRepoGorm) Create(ctx context.Context, booking *model.Booking) error {
	if err := gorm.G[model.Booking](r.db).Create(ctx, booking); err != nil {
		return err
	}
	return nil
}

func (r *bookingRepoGorm) GetByID(ctx context.Context, id uint) (*model.Booking, error) {
	booking, err := gorm.G[model.Booking](r.db).Where("id = ?", id).First(ctx)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepoGorm) ListViewsByUserID(ctx context.Context, userID uint) ([]model.BookingView, error) {
	var views []model.BookingView
	err := r.views(ctx).Where("bookings.user_id = ?", userID).Scan(&views).Error
	if err != nil {
		return nil, err
	}
	return views, nil
}

func (r *bookingRepoGorm) ListAllViews(ctx context.Context) ([]model.BookingView, error) {
	var views []model.BookingView
	if err := r.views(ctx).Scan(&views).Error; err != nil {
		return nil, err
	}
	return views, nil
}

// DeleteByIDAndUserID only removes the booking when it belongs to userID.
func (r *bookingRepoGorm) DeleteByIDAndUserID(ctx context.Context, id, userID uint) (int, error) {
	return gorm.G[model.Booking](r.db).Where("id = ? AND user_id = ?", id, userID).Delete(ctx)
}

// movies is left joined, a deleted movie yields model.UnknownMovieTitle and a zero price
func (r *bookingRepoGorm) views(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("bookings").
		Select(`bookings.id, users.name AS username, bookings.movie_id,
			COALESCE(movies.title, ?) AS movie_title, COALESCE(movies.price, 0) AS price,
			bookings.showtime, bookings.quantity, bookings.total`, model.UnknownMovieTitle).
		Joins("JOIN users ON users.id = bookings.user_id").
		Joins("LEFT JOIN movies ON movies.id = bookings.movie_id").
		Order("bookings.id ASC")
}
