package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/qs-lzh/movie-booking/internal/model"
	"github.com/qs-lzh/movie-booking/internal/repository"
	"github.com/qs-lzh/movie-booking/internal/testutil"
)

func TestRun_EmptyDatabase(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	res, err := Run(ctx, db, "secret", zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 3, res.MoviesInserted)
	assert.True(t, res.AdminCreated)

	movies, err := repository.NewMovieRepoGorm(db).ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, movies, 3)
	assert.Equal(t, "Inception", movies[0].Title)
	assert.Equal(t, 12, movies[0].Price)
	assert.Equal(t, "The Matrix", movies[1].Title)
	assert.Equal(t, "Avengers: Endgame", movies[2].Title)
	assert.Equal(t, "3D", movies[2].Format)

	admin, err := repository.NewUserRepoGorm(db).GetByName(ctx, AdminUsername)
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin)
	assert.NotEqual(t, "secret", admin.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("secret")))
}

func TestRun_Idempotent(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	_, err := Run(ctx, db, "secret", zap.NewNop())
	require.NoError(t, err)

	res, err := Run(ctx, db, "other", zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, Result{}, res)

	count, err := repository.NewMovieRepoGorm(db).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	var users int64
	require.NoError(t, db.Model(&model.User{}).Count(&users).Error)
	assert.Equal(t, int64(1), users)
}

func TestRun_KeepsExistingCatalog(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	require.NoError(t, repository.NewMovieRepoGorm(db).Create(ctx, &model.Movie{
		Title: "Local", Year: 2001, Director: "D", Rating: 5, Format: "2D", Price: 7,
	}))

	res, err := Run(ctx, db, "secret", zap.NewNop())
	require.NoError(t, err)
	assert.Zero(t, res.MoviesInserted)
	assert.True(t, res.AdminCreated)
}
