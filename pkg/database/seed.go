package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"bookstore/pkg/models"
)

func intp(v int) *int { return &v }

// SeedCatalog wipes and repopulates the catalog collections with the demo
// data set. Users are left alone. Returns the number of books inserted.
func SeedCatalog(ctx context.Context, db *mongo.Database) (int, error) {
	for _, name := range []string{"books", "authors", "publishers"} {
		if _, err := db.Collection(name).DeleteMany(ctx, bson.M{}); err != nil {
			return 0, fmt.Errorf("clear %s: %w", name, err)
		}
	}

	now := time.Now().UTC()

	publisherNames := []string{
		"Bloomsbury",
		"Bantam Spectra",
		"Doubleday",
		"Secker & Warburg",
		"J. B. Lippincott & Co.",
	}
	publishers := make([]models.Publisher, 0, len(publisherNames))
	pubDocs := make([]any, 0, len(publisherNames))
	for _, name := range publisherNames {
		p := models.Publisher{ID: primitive.NewObjectID(), Name: name, CreatedAt: now, UpdatedAt: now}
		publishers = append(publishers, p)
		pubDocs = append(pubDocs, p)
	}
	if _, err := db.Collection("publishers").InsertMany(ctx, pubDocs); err != nil {
		return 0, fmt.Errorf("insert publishers: %w", err)
	}

	authorNames := []string{
		"J.K. Rowling",
		"George R.R. Martin",
		"Stephen King",
		"George Orwell",
		"Harper Lee",
	}
	authors := make([]models.Author, 0, len(authorNames))
	authorDocs := make([]any, 0, len(authorNames))
	for _, name := range authorNames {
		a := models.Author{ID: primitive.NewObjectID(), Name: name, CreatedAt: now, UpdatedAt: now}
		authors = append(authors, a)
		authorDocs = append(authorDocs, a)
	}
	if _, err := db.Collection("authors").InsertMany(ctx, authorDocs); err != nil {
		return 0, fmt.Errorf("insert authors: %w", err)
	}

	books := []models.Book{
		{
			Title:         "Harry Potter and the Philosopher's Stone",
			Description:   "The first book in the Harry Potter series following the life of a young wizard, Harry Potter, and his friends Hermione Granger and Ron Weasley.",
			Price:         19.99,
			CoverImage:    "https://images-na.ssl-images-amazon.com/images/I/81iqZ2HHD-L.jpg",
			PublishedYear: intp(1997),
			Genre:         "Fantasy",
			Authors:       []primitive.ObjectID{authors[0].ID},
			Publisher:     &publishers[0].ID,
		},
		{
			Title:         "A Game of Thrones",
			Description:   "The first book in A Song of Ice and Fire series - a tale of lords and ladies, soldiers and sorcerers, assassins and bastards, who come together in a time of grim omens.",
			Price:         24.99,
			CoverImage:    "https://images-na.ssl-images-amazon.com/images/I/91dSMhdIzTL.jpg",
			PublishedYear: intp(1996),
			Genre:         "Fantasy",
			Authors:       []primitive.ObjectID{authors[1].ID},
			Publisher:     &publishers[1].ID,
		},
		{
			Title:         "The Shining",
			Description:   "A horror novel by Stephen King about a family that heads to an isolated hotel for the winter where a sinister presence influences the father into violence.",
			Price:         15.99,
			CoverImage:    "https://images-na.ssl-images-amazon.com/images/I/71RvY-PzP9L.jpg",
			PublishedYear: intp(1977),
			Genre:         "Horror",
			Authors:       []primitive.ObjectID{authors[2].ID},
			Publisher:     &publishers[2].ID,
		},
		{
			Title:         "1984",
			Description:   "A dystopian novel that tells the story of Winston Smith and his attempt to rebel against the totalitarian state in which he lives.",
			Price:         12.99,
			CoverImage:    "https://images-na.ssl-images-amazon.com/images/I/71kxa1-0mfL.jpg",
			PublishedYear: intp(1949),
			Genre:         "Dystopian",
			Authors:       []primitive.ObjectID{authors[3].ID},
			Publisher:     &publishers[3].ID,
		},
		{
			Title:         "To Kill a Mockingbird",
			Description:   "A novel about a lawyer in the Deep South defending a Black man accused of rape, as seen through the eyes of his daughter Scout.",
			Price:         14.99,
			CoverImage:    "https://images-na.ssl-images-amazon.com/images/I/71FxgtFKcQL.jpg",
			PublishedYear: intp(1960),
			Genre:         "Fiction",
			Authors:       []primitive.ObjectID{authors[4].ID},
			Publisher:     &publishers[4].ID,
		},
	}

	bookDocs := make([]any, 0, len(books))
	for _, b := range books {
		b.ID = primitive.NewObjectID()
		b.CreatedAt = now
		b.UpdatedAt = now
		bookDocs = append(bookDocs, b)
	}
	if _, err := db.Collection("books").InsertMany(ctx, bookDocs); err != nil {
		return 0, fmt.Errorf("insert books: %w", err)
	}
	return len(bookDocs), nil
}
