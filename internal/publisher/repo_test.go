package publisher_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"bookstore/internal/author"
	"bookstore/internal/book"
	"bookstore/internal/publisher"
	"bookstore/pkg/database"
	"bookstore/pkg/models"
)

func testDB(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set; skipping store-backed test")
	}
	ctx := context.Background()
	client, err := database.Connect(ctx, uri)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	db := client.Database("bookstore_test_" + primitive.NewObjectID().Hex())
	if err := database.EnsureIndexes(ctx, db); err != nil {
		t.Fatalf("indexes: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = database.Close(context.Background(), client)
	})
	return db
}

func mustPublisher(t *testing.T, db *mongo.Database, name string) primitive.ObjectID {
	t.Helper()
	p, err := publisher.Create(context.Background(), db, name)
	if err != nil {
		t.Fatalf("create publisher: %v", err)
	}
	id, _ := primitive.ObjectIDFromHex(p.ID)
	return id
}

func mustBook(t *testing.T, db *mongo.Database, title string, authors []primitive.ObjectID, pub *primitive.ObjectID) primitive.ObjectID {
	t.Helper()
	if authors == nil {
		authors = []primitive.ObjectID{}
	}
	v, err := book.Create(context.Background(), db, models.Book{
		Title:       title,
		Description: "d",
		Price:       1,
		CoverImage:  "https://example.com/c.jpg",
		Authors:     authors,
		Publisher:   pub,
	})
	if err != nil {
		t.Fatalf("create book: %v", err)
	}
	id, _ := primitive.ObjectIDFromHex(v.ID)
	return id
}

func TestDeleteClearsOnlyItsBooks(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	p1 := mustPublisher(t, db, "Doomed")
	p2 := mustPublisher(t, db, "Surviving")

	b1 := mustBook(t, db, "B1", nil, &p1)
	b2 := mustBook(t, db, "B2", nil, &p1)
	other := mustBook(t, db, "Other", nil, &p2)

	if err := publisher.Delete(ctx, db, p1); err != nil {
		t.Fatalf("delete: %v", err)
	}

	for _, id := range []primitive.ObjectID{b1, b2} {
		v, err := book.GetByID(ctx, db, id)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if v.Publisher != nil {
			t.Fatalf("book %s still has publisher %+v", v.ID, v.Publisher)
		}
	}

	v, err := book.GetByID(ctx, db, other)
	if err != nil {
		t.Fatalf("get other: %v", err)
	}
	if v.Publisher == nil || v.Publisher.Name != "Surviving" {
		t.Fatalf("unrelated book touched: %+v", v.Publisher)
	}
}

func TestDeleteUnknownPublisher(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	p := mustPublisher(t, db, "Kept")
	b := mustBook(t, db, "Kept Book", nil, &p)

	if err := publisher.Delete(ctx, db, primitive.NewObjectID()); !errors.Is(err, publisher.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := publisher.Delete(ctx, db, p); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := publisher.Delete(ctx, db, p); !errors.Is(err, publisher.ErrNotFound) {
		t.Fatalf("re-delete: err = %v, want ErrNotFound", err)
	}

	v, err := book.GetByID(ctx, db, b)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if v.Publisher != nil {
		t.Fatalf("publisher = %+v, want nil", v.Publisher)
	}
}

func TestNameUniqueness(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	if _, err := publisher.Create(ctx, db, "Acme"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := publisher.Create(ctx, db, "Acme"); !errors.Is(err, publisher.ErrNameTaken) {
		t.Fatalf("duplicate create: err = %v, want ErrNameTaken", err)
	}
}

// The full cascade walkthrough: delete the author, the book survives with an
// empty author list and its publisher; then delete the publisher and the
// book survives with a null publisher.
func TestAuthorThenPublisherCascade(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	p1 := mustPublisher(t, db, "Acme")
	a, err := author.Create(ctx, db, "Jane Doe")
	if err != nil {
		t.Fatalf("create author: %v", err)
	}
	a1, _ := primitive.ObjectIDFromHex(a.ID)

	bid := mustBook(t, db, "X", []primitive.ObjectID{a1}, &p1)

	if err := author.Delete(ctx, db, a1); err != nil {
		t.Fatalf("delete author: %v", err)
	}
	v, err := book.GetByID(ctx, db, bid)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(v.Authors) != 0 {
		t.Fatalf("authors = %+v, want empty", v.Authors)
	}
	if v.Publisher == nil || v.Publisher.Name != "Acme" {
		t.Fatalf("publisher = %+v, want Acme", v.Publisher)
	}

	if err := publisher.Delete(ctx, db, p1); err != nil {
		t.Fatalf("delete publisher: %v", err)
	}
	v, err = book.GetByID(ctx, db, bid)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if v.Publisher != nil {
		t.Fatalf("publisher = %+v, want nil", v.Publisher)
	}
}
