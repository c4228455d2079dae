package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// books collection
type Book struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title         string               `bson:"title" json:"title"`
	Description   string               `bson:"description" json:"description"`
	Price         float64              `bson:"price" json:"price"`
	CoverImage    string               `bson:"coverImage" json:"coverImage"`
	PublishedYear *int                 `bson:"publishedYear,omitempty" json:"publishedYear,omitempty"`
	Genre         string               `bson:"genre,omitempty" json:"genre,omitempty"`
	Authors       []primitive.ObjectID `bson:"authors" json:"authors"`
	Publisher     *primitive.ObjectID  `bson:"publisher,omitempty" json:"publisher,omitempty"`
	CreatedAt     time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// authors collection
type Author struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// publishers collection; name carries a unique index
type Publisher struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// users collection
type User struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Username       string               `bson:"username" json:"username"`
	Email          string               `bson:"email" json:"email"`
	PasswordHash   string               `bson:"password" json:"-"`
	Role           string               `bson:"role" json:"role"`
	PurchasedBooks []primitive.ObjectID `bson:"purchasedBooks" json:"purchasedBooks"`
	CreatedAt      time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// AuthorView is the embedded shape authors take inside expanded book
// responses and in the /authors endpoints.
type AuthorView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type PublisherView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// BookView is a book with its author and publisher references expanded
// inline. Publisher is null when the book has none; Authors is never null,
// only possibly empty.
type BookView struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Price         float64        `json:"price"`
	CoverImage    string         `json:"coverImage"`
	PublishedYear *int           `json:"publishedYear,omitempty"`
	Genre         string         `json:"genre,omitempty"`
	Authors       []AuthorView   `json:"authors"`
	Publisher     *PublisherView `json:"publisher"`
}

// UserView is the safe shape returned from login: no password hash, no
// purchase history.
type UserView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func (u User) View() UserView {
	return UserView{
		ID:       u.ID.Hex(),
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}
}

func (a Author) View() AuthorView {
	return AuthorView{ID: a.ID.Hex(), Name: a.Name}
}

func (p Publisher) View() PublisherView {
	return PublisherView{ID: p.ID.Hex(), Name: p.Name}
}
