package book

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"bookstore/pkg/models"
)

var ErrNotFound = errors.New("book not found")

func col(db *mongo.Database) *mongo.Collection {
	return db.Collection("books")
}

// Filter holds the optional search constraints. Zero values impose no
// constraint, so the zero Filter lists the whole collection.
type Filter struct {
	Title     string
	Author    *primitive.ObjectID
	Publisher *primitive.ObjectID
}

func buildFilter(f Filter) bson.M {
	filter := bson.M{}
	if f.Title != "" {
		// unanchored, case-insensitive substring; quote so user input
		// can't inject regex syntax
		filter["title"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Title), Options: "i"}
	}
	if f.Author != nil {
		// matching a scalar against an array field is membership in mongo
		filter["authors"] = *f.Author
	}
	if f.Publisher != nil {
		filter["publisher"] = *f.Publisher
	}
	return filter
}

// Search returns every book matching f, expanded. List-all and filtered
// search share this one path.
func Search(ctx context.Context, db *mongo.Database, f Filter) ([]models.BookView, error) {
	cur, err := col(db).Find(ctx, buildFilter(f))
	if err != nil {
		return nil, err
	}
	var books []models.Book
	if err := cur.All(ctx, &books); err != nil {
		return nil, err
	}
	return Expand(ctx, db, books)
}

func GetByID(ctx context.Context, db *mongo.Database, id primitive.ObjectID) (models.BookView, error) {
	var b models.Book
	err := col(db).FindOne(ctx, bson.M{"_id": id}).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.BookView{}, ErrNotFound
	}
	if err != nil {
		return models.BookView{}, err
	}
	views, err := Expand(ctx, db, []models.Book{b})
	if err != nil {
		return models.BookView{}, err
	}
	return views[0], nil
}

func Exists(ctx context.Context, db *mongo.Database, id primitive.ObjectID) (bool, error) {
	n, err := col(db).CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetMany fetches the books for ids in the order given, expanded. Ids that
// no longer resolve are dropped rather than reported.
func GetMany(ctx context.Context, db *mongo.Database, ids []primitive.ObjectID) ([]models.BookView, error) {
	if len(ids) == 0 {
		return []models.BookView{}, nil
	}
	cur, err := col(db).Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var found []models.Book
	if err := cur.All(ctx, &found); err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]models.Book, len(found))
	for _, b := range found {
		byID[b.ID] = b
	}
	ordered := make([]models.Book, 0, len(ids))
	for _, id := range ids {
		if b, ok := byID[id]; ok {
			ordered = append(ordered, b)
		}
	}
	return Expand(ctx, db, ordered)
}

// Create inserts b and returns it expanded so the caller immediately sees
// the same shape reads produce.
func Create(ctx context.Context, db *mongo.Database, b models.Book) (models.BookView, error) {
	now := time.Now().UTC()
	b.ID = primitive.NewObjectID()
	b.CreatedAt = now
	b.UpdatedAt = now
	if b.Authors == nil {
		b.Authors = []primitive.ObjectID{}
	}
	if _, err := col(db).InsertOne(ctx, b); err != nil {
		return models.BookView{}, err
	}
	return GetByID(ctx, db, b.ID)
}

// Update applies replace-style field overwrites: everything in set is
// written, and unsetPublisher clears the publisher reference entirely.
// Fields absent from both are left untouched.
func Update(ctx context.Context, db *mongo.Database, id primitive.ObjectID, set bson.M, unsetPublisher bool) (models.BookView, error) {
	set["updatedAt"] = time.Now().UTC()
	update := bson.M{"$set": set}
	if unsetPublisher {
		update["$unset"] = bson.M{"publisher": ""}
	}
	res, err := col(db).UpdateByID(ctx, id, update)
	if err != nil {
		return models.BookView{}, err
	}
	if res.MatchedCount == 0 {
		return models.BookView{}, ErrNotFound
	}
	return GetByID(ctx, db, id)
}

func Delete(ctx context.Context, db *mongo.Database, id primitive.ObjectID) error {
	res, err := col(db).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveAuthorRef pulls authorID out of every book's author list in one
// bulk write. Books left with an empty author list are valid. Returns the
// number of books rewritten.
func RemoveAuthorRef(ctx context.Context, db *mongo.Database, authorID primitive.ObjectID) (int64, error) {
	res, err := col(db).UpdateMany(ctx,
		bson.M{"authors": authorID},
		bson.M{
			"$pull": bson.M{"authors": authorID},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// ClearPublisherRef unsets the publisher field on every book referencing
// publisherID. The field is removed, not set to a sentinel.
func ClearPublisherRef(ctx context.Context, db *mongo.Database, publisherID primitive.ObjectID) (int64, error) {
	res, err := col(db).UpdateMany(ctx,
		bson.M{"publisher": publisherID},
		bson.M{
			"$unset": bson.M{"publisher": ""},
			"$set":   bson.M{"updatedAt": time.Now().UTC()},
		})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// Expand resolves author and publisher references for a batch of books with
// one $in query per related collection. References that no longer resolve
// (mid-cascade staleness) are silently dropped from the result.
func Expand(ctx context.Context, db *mongo.Database, books []models.Book) ([]models.BookView, error) {
	authorIDs := make([]primitive.ObjectID, 0)
	publisherIDs := make([]primitive.ObjectID, 0)
	seenAuthor := map[primitive.ObjectID]bool{}
	seenPublisher := map[primitive.ObjectID]bool{}
	for _, b := range books {
		for _, id := range b.Authors {
			if !seenAuthor[id] {
				seenAuthor[id] = true
				authorIDs = append(authorIDs, id)
			}
		}
		if b.Publisher != nil && !seenPublisher[*b.Publisher] {
			seenPublisher[*b.Publisher] = true
			publisherIDs = append(publisherIDs, *b.Publisher)
		}
	}

	authors := map[primitive.ObjectID]models.AuthorView{}
	if len(authorIDs) > 0 {
		cur, err := db.Collection("authors").Find(ctx, bson.M{"_id": bson.M{"$in": authorIDs}})
		if err != nil {
			return nil, err
		}
		var recs []models.Author
		if err := cur.All(ctx, &recs); err != nil {
			return nil, err
		}
		for _, a := range recs {
			authors[a.ID] = a.View()
		}
	}

	publishers := map[primitive.ObjectID]models.PublisherView{}
	if len(publisherIDs) > 0 {
		cur, err := db.Collection("publishers").Find(ctx, bson.M{"_id": bson.M{"$in": publisherIDs}})
		if err != nil {
			return nil, err
		}
		var recs []models.Publisher
		if err := cur.All(ctx, &recs); err != nil {
			return nil, err
		}
		for _, p := range recs {
			publishers[p.ID] = p.View()
		}
	}

	views := make([]models.BookView, 0, len(books))
	for _, b := range books {
		v := models.BookView{
			ID:            b.ID.Hex(),
			Title:         b.Title,
			Description:   b.Description,
			Price:         b.Price,
			CoverImage:    b.CoverImage,
			PublishedYear: b.PublishedYear,
			Genre:         b.Genre,
			Authors:       make([]models.AuthorView, 0, len(b.Authors)),
		}
		for _, id := range b.Authors {
			if a, ok := authors[id]; ok {
				v.Authors = append(v.Authors, a)
			}
		}
		if b.Publisher != nil {
			if p, ok := publishers[*b.Publisher]; ok {
				v.Publisher = &p
			}
		}
		views = append(views, v)
	}
	return views, nil
}
