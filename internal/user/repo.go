package user

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"bookstore/pkg/models"
)

var ErrNotFound = errors.New("user not found")
var ErrTaken = errors.New("username or email already in use")
var ErrAlreadyPurchased = errors.New("book already purchased")

// ErrInvalidCredentials covers unknown email, wrong role context and wrong
// password alike so callers cannot enumerate accounts.
var ErrInvalidCredentials = errors.New("invalid credentials")

func col(db *mongo.Database) *mongo.Collection {
	return db.Collection("users")
}

func Create(ctx context.Context, db *mongo.Database, username, email, password, role string) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}
	now := time.Now().UTC()
	u := models.User{
		ID:             primitive.NewObjectID(),
		Username:       username,
		Email:          email,
		PasswordHash:   string(hash),
		Role:           role,
		PurchasedBooks: []primitive.ObjectID{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := col(db).InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, ErrTaken
		}
		return models.User{}, err
	}
	return u, nil
}

// VerifyLogin authenticates an (email, password) pair within a role
// context. An account can only log into the role it carries; every failure
// mode reports the same error.
func VerifyLogin(ctx context.Context, db *mongo.Database, email, password, role string) (models.User, error) {
	var u models.User
	err := col(db).FindOne(ctx, bson.M{"email": email, "role": role}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return u, nil
}

func GetByID(ctx context.Context, db *mongo.Database, id primitive.ObjectID) (models.User, error) {
	var u models.User
	err := col(db).FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

// Purchase appends bookID to the user's purchased set. Purchasing a book
// twice is a client error, not a silent no-op; $addToSet keeps the list
// duplicate-free even under concurrent purchases.
func Purchase(ctx context.Context, db *mongo.Database, userID, bookID primitive.ObjectID) error {
	u, err := GetByID(ctx, db, userID)
	if err != nil {
		return err
	}
	for _, id := range u.PurchasedBooks {
		if id == bookID {
			return ErrAlreadyPurchased
		}
	}
	_, err = col(db).UpdateByID(ctx, userID, bson.M{
		"$addToSet": bson.M{"purchasedBooks": bookID},
		"$set":      bson.M{"updatedAt": time.Now().UTC()},
	})
	return err
}
