package author

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"bookstore/internal/book"
	"bookstore/pkg/models"
)

var ErrNotFound = errors.New("author not found")

func col(db *mongo.Database) *mongo.Collection {
	return db.Collection("authors")
}

// Search lists authors whose name contains q, case-insensitively. Empty q
// lists everything.
func Search(ctx context.Context, db *mongo.Database, q string) ([]models.AuthorView, error) {
	filter := bson.M{}
	if q != "" {
		filter["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}
	}
	cur, err := col(db).Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var recs []models.Author
	if err := cur.All(ctx, &recs); err != nil {
		return nil, err
	}
	views := make([]models.AuthorView, 0, len(recs))
	for _, a := range recs {
		views = append(views, a.View())
	}
	return views, nil
}

func GetByID(ctx context.Context, db *mongo.Database, id primitive.ObjectID) (models.AuthorView, error) {
	var a models.Author
	err := col(db).FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.AuthorView{}, ErrNotFound
	}
	if err != nil {
		return models.AuthorView{}, err
	}
	return a.View(), nil
}

// ExistAll reports whether every id in ids resolves to an author. Used to
// validate book author references at write time.
func ExistAll(ctx context.Context, db *mongo.Database, ids []primitive.ObjectID) (bool, error) {
	if len(ids) == 0 {
		return true, nil
	}
	distinct := make([]primitive.ObjectID, 0, len(ids))
	seen := map[primitive.ObjectID]bool{}
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			distinct = append(distinct, id)
		}
	}
	n, err := col(db).CountDocuments(ctx, bson.M{"_id": bson.M{"$in": distinct}})
	if err != nil {
		return false, err
	}
	return n == int64(len(distinct)), nil
}

func Create(ctx context.Context, db *mongo.Database, name string) (models.AuthorView, error) {
	now := time.Now().UTC()
	a := models.Author{
		ID:        primitive.NewObjectID(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := col(db).InsertOne(ctx, a); err != nil {
		return models.AuthorView{}, err
	}
	return a.View(), nil
}

func Update(ctx context.Context, db *mongo.Database, id primitive.ObjectID, name string) (models.AuthorView, error) {
	res, err := col(db).UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"name": name, "updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return models.AuthorView{}, err
	}
	if res.MatchedCount == 0 {
		return models.AuthorView{}, ErrNotFound
	}
	return GetByID(ctx, db, id)
}

// Delete removes the author after scrubbing its id from every referencing
// book, so no dangling reference survives the cascade. The existence check
// comes first: deleting an unknown author must not touch any book.
func Delete(ctx context.Context, db *mongo.Database, id primitive.ObjectID) error {
	n, err := col(db).CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	if _, err := book.RemoveAuthorRef(ctx, db, id); err != nil {
		return err
	}
	res, err := col(db).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		// raced with a concurrent delete; books are already scrubbed
		return ErrNotFound
	}
	return nil
}
