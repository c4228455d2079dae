package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"bookstore/internal/author"
)

type nameRequest struct {
	Name string `json:"name"`
}

func handleListAuthors(c *gin.Context, db *mongo.Database) {
	views, err := author.Search(c.Request.Context(), db, c.Query("name"))
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func handleGetAuthor(c *gin.Context, db *mongo.Database) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid author id")
		return
	}
	v, err := author.GetByID(c.Request.Context(), db, id)
	if errors.Is(err, author.ErrNotFound) {
		fail(c, http.StatusNotFound, "author not found")
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func handleCreateAuthor(c *gin.Context, db *mongo.Database) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		fail(c, http.StatusBadRequest, "name is required")
		return
	}
	v, err := author.Create(c.Request.Context(), db, req.Name)
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

func handleUpdateAuthor(c *gin.Context, db *mongo.Database) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid author id")
		return
	}
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		fail(c, http.StatusBadRequest, "name is required")
		return
	}
	v, err := author.Update(c.Request.Context(), db, id, req.Name)
	if errors.Is(err, author.ErrNotFound) {
		fail(c, http.StatusNotFound, "author not found")
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func handleDeleteAuthor(c *gin.Context, db *mongo.Database) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid author id")
		return
	}
	err = author.Delete(c.Request.Context(), db, id)
	if errors.Is(err, author.ErrNotFound) {
		fail(c, http.StatusNotFound, "author not found")
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "author deleted"})
}
