package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs-lzh/movie-booking/internal/model"
	"github.com/qs-lzh/movie-booking/internal/testutil"
)

func newMovie(title string, price int) *model.Movie {
	return &model.Movie{Title: title, Year: 2023, Director: "Test Director", Rating: 8, Format: "Standard", Price: price}
}

func TestMovieRepo_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewMovieRepoGorm(testutil.NewTestDB(t))

	first := newMovie("First", 10)
	second := newMovie("Second", 12)
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))
	assert.NotZero(t, first.ID)

	movies, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, movies, 2)
	assert.Equal(t, "First", movies[0].Title)
	assert.Equal(t, "Second", movies[1].Title)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	byTitle, err := repo.GetByTitle(ctx, "Second")
	require.NoError(t, err)
	assert.Equal(t, second.ID, byTitle.ID)

	first.Title = "First (Director's Cut)"
	first.Price = 14
	require.NoError(t, repo.Update(ctx, first))
	updated, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "First (Director's Cut)", updated.Title)
	assert.Equal(t, 14, updated.Price)

	affected, err := repo.Delete(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, affected)

	_, err = repo.GetByID(ctx, first.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestMovieRepo_DuplicateTitle(t *testing.T) {
	ctx := context.Background()
	repo := NewMovieRepoGorm(testutil.NewTestDB(t))

	require.NoError(t, repo.Create(ctx, newMovie("Inception", 12)))
	err := repo.Create(ctx, newMovie("Inception", 12))
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey), "got %v", err)
}

func TestMovieRepo_GetByIDZero(t *testing.T) {
	ctx := context.Background()
	repo := NewMovieRepoGorm(testutil.NewTestDB(t))
	require.NoError(t, repo.Create(ctx, newMovie("Only", 10)))

	_, err := repo.GetByID(ctx, 0)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepo_UniqueName(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepoGorm(testutil.NewTestDB(t))

	alice := &model.User{Name: "alice", PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, alice))

	got, err := repo.GetByName(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)
	assert.False(t, got.IsAdmin)

	_, err = repo.GetByName(ctx, "Alice")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = repo.Create(ctx, &model.User{Name: "alice", PasswordHash: "other"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestBookingRepo_ViewsAndScopedDelete(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	users := NewUserRepoGorm(db)
	movies := NewMovieRepoGorm(db)
	bookings := NewBookingRepoGorm(db)

	alice := &model.User{Name: "alice", PasswordHash: "x"}
	bob := &model.User{Name: "bob", PasswordHash: "x"}
	require.NoError(t, users.Create(ctx, alice))
	require.NoError(t, users.Create(ctx, bob))

	kept := newMovie("Kept", 10)
	gone := newMovie("Gone", 15)
	require.NoError(t, movies.Create(ctx, kept))
	require.NoError(t, movies.Create(ctx, gone))

	b1 := &model.Booking{UserID: alice.ID, MovieID: kept.ID, Showtime: "18:00", Quantity: 2, Total: 20}
	b2 := &model.Booking{UserID: bob.ID, MovieID: gone.ID, Showtime: "20:00", Quantity: 1, Total: 15}
	b3 := &model.Booking{UserID: alice.ID, MovieID: gone.ID, Showtime: "21:00", Quantity: 3, Total: 45}
	for _, b := range []*model.Booking{b1, b2, b3} {
		require.NoError(t, bookings.Create(ctx, b))
	}

	_, err := movies.Delete(ctx, gone.ID)
	require.NoError(t, err)

	own, err := bookings.ListViewsByUserID(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, own, 2)
	assert.Equal(t, b1.ID, own[0].ID)
	assert.Equal(t, "Kept", own[0].MovieTitle)
	assert.Equal(t, 10, own[0].Price)
	assert.Equal(t, "alice", own[0].Username)
	assert.Equal(t, model.UnknownMovieTitle, own[1].MovieTitle)
	assert.Equal(t, 0, own[1].Price)
	assert.Equal(t, 45, own[1].Total)

	all, err := bookings.ListAllViews(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []uint{b1.ID, b2.ID, b3.ID}, []uint{all[0].ID, all[1].ID, all[2].ID})
	assert.Equal(t, "bob", all[1].Username)

	affected, err := bookings.DeleteByIDAndUserID(ctx, b2.ID, alice.ID)
	require.NoError(t, err)
	assert.Zero(t, affected)

	affected, err = bookings.DeleteByIDAndUserID(ctx, b1.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, affected)

	_, err = bookings.GetByID(ctx, b1.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
