package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/qs-lzh/movie-booking/internal/model"
)

type MovieRepo interface {
	WithTx(tx *gorm.DB) MovieRepo
	Create(ctx context.Context, movie *model.Movie) error
	GetByID(ctx context.Context, id uint) (*model.Movie, error)
	GetByTitle(ctx context.Context, title string) (*model.Movie, error)
	ListAll(ctx context.Context) ([]model.Movie, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, movie *model.Movie) error
	Delete(ctx context.Context, id uint) (int, error)
}

type movieRepoGorm struct {
	db *gorm.DB
}

var _ MovieRepo = (*movieRepoGorm)(nil)

func NewMovieRepoGorm(db *gorm.DB) *movieRepoGorm {
	return &movieRepoGorm{
		db: db,
	}
}

func (r *movieRepoGorm) WithTx(tx *gorm.DB) MovieRepo {
	return &movieRepoGorm{
		db: tx,
	}
}

func (r *movieRepoGorm) Create(ctx context.Context, movie *model.Movie) error {
	if err := gorm.G[model.Movie](r.db).Create(ctx, movie); err != nil {
		return err
	}
	return nil
}

func (r *movieRepoGorm) GetByID(ctx context.Context, id uint) (*model.Movie, error) {
	movie, err := gorm.G[model.Movie](r.db).Where("id = ?", id).First(ctx)
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

func (r *movieRepoGorm) GetByTitle(ctx context.Context, title string) (*model.Movie, error) {
	movie, err := gorm.G[model.Movie](r.db).Where("title = ?", title).First(ctx)
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

func (r *movieRepoGorm) ListAll(ctx context.Context) ([]model.Movie, error) {
	movies, err := gorm.G[model.Movie](r.db).Order("id ASC").Find(ctx)
	if err != nil {
		return nil, err
	}
	return movies, nil
}

func (r *movieRepoGorm) Count(ctx context.Context) (int64, error) {
	return gorm.G[model.Movie](r.db).Count(ctx, "*")
}

// Update overwrites every editable column of the row identified by movie.ID.
func (r *movieRepoGorm) Update(ctx context.Context, movie *model.Movie) error {
	return r.db.WithContext(ctx).
		Model(&model.Movie{}).
		Where("id = ?", movie.ID).
		Updates(map[string]any{
			"title":    movie.Title,
			"year":     movie.Year,
			"director": movie.Director,
			"rating":   movie.Rating,
			"format":   movie.Format,
			"price":    movie.Price,
		}).Error
}

func (r *movieRepoGorm) Delete(ctx context.Context, id uint) (int, error) {
	return gorm.G[model.Movie](r.db).Where("id = ?", id).Delete(ctx)
}
