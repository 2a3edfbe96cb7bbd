package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/qs-lzh/movie-booking/internal/model"
)

type UserRepo interface {
	WithTx(tx *gorm.DB) UserRepo
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByName(ctx context.Context, name string) (*model.User, error)
}

type userRepoGorm struct {
	db *gorm.DB
}

var _ UserRepo = (*userRepoGorm)(nil)

func NewUserRepoGorm(db *gorm.DB) *userRepoGorm {
	return &userRepoGorm{
		db: db,
	}
}

func (r *userRepoGorm) WithTx(tx *gorm.DB) UserRepo {
	return &userRepoGorm{
		db: tx,
	}
}

func (r *userRepoGorm) Create(ctx context.Context, user *model.User) error {
	if err := gorm.G[model.User](r.db).Create(ctx, user); err != nil {
		return err
	}
	return nil
}

func (r *userRepoGorm) GetByID(ctx context.Context, id uint) (*model.User, error) {
	user, err := gorm.G[model.User](r.db).Where("id = ?", id).First(ctx)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepoGorm) GetByName(ctx context.Context, name string) (*model.User, error) {
	user, err := gorm.G[model.User](r.db).Where("name = ?", name).First(ctx)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
