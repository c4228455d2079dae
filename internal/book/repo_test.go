package book_test

import (
	"context"
	"os"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
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

func mustAuthor(t *testing.T, db *mongo.Database, name string) models.AuthorView {
	t.Helper()
	a, err := author.Create(context.Background(), db, name)
	if err != nil {
		t.Fatalf("create author %s: %v", name, err)
	}
	return a
}

func mustPublisher(t *testing.T, db *mongo.Database, name string) models.PublisherView {
	t.Helper()
	p, err := publisher.Create(context.Background(), db, name)
	if err != nil {
		t.Fatalf("create publisher %s: %v", name, err)
	}
	return p
}

func mustBook(t *testing.T, db *mongo.Database, title string, authors []primitive.ObjectID, pub *primitive.ObjectID) models.BookView {
	t.Helper()
	if authors == nil {
		authors = []primitive.ObjectID{}
	}
	v, err := book.Create(context.Background(), db, models.Book{
		Title:       title,
		Description: "test book",
		Price:       9.99,
		CoverImage:  "https://example.com/cover.jpg",
		Authors:     authors,
		Publisher:   pub,
	})
	if err != nil {
		t.Fatalf("create book %s: %v", title, err)
	}
	return v
}

func oid(t *testing.T, hex string) primitive.ObjectID {
	t.Helper()
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		t.Fatalf("bad id %q: %v", hex, err)
	}
	return id
}

func TestCreateReturnsExpandedShape(t *testing.T) {
	db := testDB(t)
	a := mustAuthor(t, db, "Jane Doe")
	p := mustPublisher(t, db, "Acme")

	v := mustBook(t, db, "X", []primitive.ObjectID{oid(t, a.ID)}, ptr(oid(t, p.ID)))
	if len(v.Authors) != 1 || v.Authors[0].Name != "Jane Doe" {
		t.Fatalf("authors = %+v", v.Authors)
	}
	if v.Publisher == nil || v.Publisher.Name != "Acme" {
		t.Fatalf("publisher = %+v", v.Publisher)
	}
}

func TestExpandPublisherNullWhenAbsent(t *testing.T) {
	db := testDB(t)
	v := mustBook(t, db, "No Publisher", nil, nil)
	if v.Publisher != nil {
		t.Fatalf("publisher = %+v, want nil", v.Publisher)
	}
	if v.Authors == nil || len(v.Authors) != 0 {
		t.Fatalf("authors = %+v, want empty non-nil", v.Authors)
	}
}

func TestSearchTitleSubstringCaseInsensitive(t *testing.T) {
	db := testDB(t)
	mustBook(t, db, "Harry Potter and the Philosopher's Stone", nil, nil)
	mustBook(t, db, "The Potter's Wheel", nil, nil)
	mustBook(t, db, "A Game of Thrones", nil, nil)

	ctx := context.Background()
	res, err := book.Search(ctx, db, book.Filter{Title: "POTTER"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res) != 2 {
		t.Fatalf("got %d results, want 2", len(res))
	}

	// substring search is a superset of the exact title
	exact, err := book.Search(ctx, db, book.Filter{Title: "The Potter's Wheel"})
	if err != nil {
		t.Fatalf("search exact: %v", err)
	}
	if len(exact) != 1 {
		t.Fatalf("exact got %d results, want 1", len(exact))
	}
}

func TestSearchNoFilterReturnsAll(t *testing.T) {
	db := testDB(t)
	mustBook(t, db, "One", nil, nil)
	mustBook(t, db, "Two", nil, nil)

	res, err := book.Search(context.Background(), db, book.Filter{})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res) != 2 {
		t.Fatalf("got %d results, want 2", len(res))
	}
}

func TestSearchByAuthorAndPublisher(t *testing.T) {
	db := testDB(t)
	a1 := oid(t, mustAuthor(t, db, "A1").ID)
	a2 := oid(t, mustAuthor(t, db, "A2").ID)
	p1 := oid(t, mustPublisher(t, db, "P1").ID)

	b1 := mustBook(t, db, "By A1", []primitive.ObjectID{a1}, &p1)
	mustBook(t, db, "By A2", []primitive.ObjectID{a2}, nil)
	mustBook(t, db, "By both", []primitive.ObjectID{a1, a2}, nil)

	ctx := context.Background()
	res, err := book.Search(ctx, db, book.Filter{Author: &a1})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res) != 2 {
		t.Fatalf("author filter: got %d, want 2", len(res))
	}

	res, err = book.Search(ctx, db, book.Filter{Publisher: &p1})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res) != 1 || res[0].ID != b1.ID {
		t.Fatalf("publisher filter: got %+v", res)
	}
}

func TestGetManyKeepsOrderDropsMissing(t *testing.T) {
	db := testDB(t)
	b1 := mustBook(t, db, "First", nil, nil)
	b2 := mustBook(t, db, "Second", nil, nil)
	missing := primitive.NewObjectID()

	res, err := book.GetMany(context.Background(), db,
		[]primitive.ObjectID{oid(t, b2.ID), missing, oid(t, b1.ID)})
	if err != nil {
		t.Fatalf("get many: %v", err)
	}
	if len(res) != 2 || res[0].ID != b2.ID || res[1].ID != b1.ID {
		t.Fatalf("got %+v", res)
	}
}

func TestUpdateNotFound(t *testing.T) {
	db := testDB(t)
	_, err := book.Update(context.Background(), db, primitive.NewObjectID(), bson.M{"title": "x"}, false)
	if err != book.ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func ptr(id primitive.ObjectID) *primitive.ObjectID { return &id }
