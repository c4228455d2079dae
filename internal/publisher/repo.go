package publisher

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

var ErrNotFound = errors.New("publisher not found")
var ErrNameTaken = errors.New("publisher name already exists")

func col(db *mongo.Database) *mongo.Collection {
	return db.Collection("publishers")
}

func Search(ctx context.Context, db *mongo.Database, q string) ([]models.PublisherView, error) {
	filter := bson.M{}
	if q != "" {
		filter["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}
	}
	cur, err := col(db).Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var recs []models.Publisher
	if err := cur.All(ctx, &recs); err != nil {
		return nil, err
	}
	views := make([]models.PublisherView, 0, len(recs))
	for _, p := range recs {
		views = append(views, p.View())
	}
	return views, nil
}

func GetByID(ctx context.Context, db *mongo.Database, id primitive.ObjectID) (models.PublisherView, error) {
	var p models.Publisher
	err := col(db).FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.PublisherView{}, ErrNotFound
	}
	if err != nil {
		return models.PublisherView{}, err
	}
	return p.View(), nil
}

func Exists(ctx context.Context, db *mongo.Database, id primitive.ObjectID) (bool, error) {
	n, err := col(db).CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Create inserts a publisher; name uniqueness is enforced by the store's
// unique index.
func Create(ctx context.Context, db *mongo.Database, name string) (models.PublisherView, error) {
	now := time.Now().UTC()
	p := models.Publisher{
		ID:        primitive.NewObjectID(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := col(db).InsertOne(ctx, p); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.PublisherView{}, ErrNameTaken
		}
		return models.PublisherView{}, err
	}
	return p.View(), nil
}

func Update(ctx context.Context, db *mongo.Database, id primitive.ObjectID, name string) (models.PublisherView, error) {
	res, err := col(db).UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"name": name, "updatedAt": time.Now().UTC()},
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.PublisherView{}, ErrNameTaken
		}
		return models.PublisherView{}, err
	}
	if res.MatchedCount == 0 {
		return models.PublisherView{}, ErrNotFound
	}
	return GetByID(ctx, db, id)
}

// Delete clears the publisher reference on every book pointing at id, then
// removes the publisher record. Not-found reports before any book mutation.
func Delete(ctx context.Context, db *mongo.Database, id primitive.ObjectID) error {
	n, err := col(db).CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	if _, err := book.ClearPublisherRef(ctx, db, id); err != nil {
		return err
	}
	res, err := col(db).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
