package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"bookstore/internal/auth"
	"bookstore/internal/book"
	"bookstore/internal/user"
	"bookstore/pkg/models"
)

func handleRegister(c *gin.Context, db *mongo.Database) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Email == "" || req.Password == "" {
		fail(c, http.StatusBadRequest, "username, email and password are required")
		return
	}
	u, err := user.Create(c.Request.Context(), db, req.Username, req.Email, req.Password, models.RoleUser)
	if errors.Is(err, user.ErrTaken) {
		fail(c, http.StatusBadRequest, "username or email already in use")
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": u.View()})
}

func handleUserLogin(c *gin.Context, db *mongo.Database, secret []byte) {
	loginWithRole(c, db, secret, models.RoleUser)
}

func handleAdminLogin(c *gin.Context, db *mongo.Database, secret []byte) {
	loginWithRole(c, db, secret, models.RoleAdmin)
}

func loginWithRole(c *gin.Context, db *mongo.Database, secret []byte, role string) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		fail(c, http.StatusBadRequest, "email and password are required")
		return
	}

	u, err := user.VerifyLogin(c.Request.Context(), db, req.Email, req.Password, role)
	if errors.Is(err, user.ErrInvalidCredentials) {
		fail(c, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}

	token, err := auth.SignJWT(secret, u.ID.Hex(), u.Role)
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u.View(), "token": token})
}

func handlePurchase(c *gin.Context, db *mongo.Database) {
	var req struct {
		BookID string `json:"bookId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.BookID == "" {
		fail(c, http.StatusBadRequest, "bookId is required")
		return
	}
	bookID, err := primitive.ObjectIDFromHex(req.BookID)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid book id")
		return
	}
	userID, err := primitive.ObjectIDFromHex(c.GetString(auth.CtxUserIDKey))
	if err != nil {
		fail(c, http.StatusUnauthorized, "invalid token")
		return
	}

	ctx := c.Request.Context()
	ok, err := book.Exists(ctx, db, bookID)
	if err != nil {
		serverError(c, err)
		return
	}
	if !ok {
		fail(c, http.StatusNotFound, "book not found")
		return
	}

	err = user.Purchase(ctx, db, userID, bookID)
	if errors.Is(err, user.ErrAlreadyPurchased) {
		fail(c, http.StatusBadRequest, "book already purchased")
		return
	}
	if errors.Is(err, user.ErrNotFound) {
		fail(c, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "book purchased"})
}

func handlePurchased(c *gin.Context, db *mongo.Database) {
	userID, err := primitive.ObjectIDFromHex(c.GetString(auth.CtxUserIDKey))
	if err != nil {
		fail(c, http.StatusUnauthorized, "invalid token")
		return
	}

	ctx := c.Request.Context()
	u, err := user.GetByID(ctx, db, userID)
	if errors.Is(err, user.ErrNotFound) {
		fail(c, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}

	views, err := book.GetMany(ctx, db, u.PurchasedBooks)
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}
