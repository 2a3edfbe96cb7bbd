package model

import (
	"time"
)

type User struct {
	ID           uint      `gorm:"primaryKey"`
	Name         string    `gorm:"size:64;not null;uniqueIndex"`
	PasswordHash string    `gorm:"not null"`
	IsAdmin      bool      `gorm:"not null;default:false"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

type Movie struct {
	ID       uint   `gorm:"primaryKey"`
	Title    string `gorm:"size:255;not null;uniqueIndex"`
	Year     int    `gorm:"not null"`
	Director string `gorm:"size:255;not null"`
	Rating   int    `gorm:"not null"`
	Format   string `gorm:"size:32;not null"`
	Price    int    `gorm:"not null"`
}

// Booking keeps MovieID as a plain column: deleting a movie leaves its
// bookings in place and they are shown with UnknownMovieTitle.
type Booking struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;index"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	MovieID   uint      `gorm:"not null;index"`
	Showtime  string    `gorm:"size:255;not null"`
	Quantity  int       `gorm:"not null"`
	Total     int       `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

const UnknownMovieTitle = "Unknown"

// BookingView is a booking joined with its owner and movie for listing.
type BookingView struct {
	ID         uint
	Username   string
	MovieID    uint
	MovieTitle string
	Price      int
	Showtime   string
	Quantity   int
	Total      int
}

// AllModels is the migration order.
func AllModels() []any {
	return []any{&User{}, &Movie{}, &Booking{}}
}
