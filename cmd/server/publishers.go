package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"bookstore/internal/publisher"
)

func handleListPublishers(c *gin.Context, db *mongo.Database) {
	views, err := publisher.Search(c.Request.Context(), db, c.Query("name"))
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func handleGetPublisher(c *gin.Context, db *mongo.Database) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid publisher id")
		return
	}
	v, err := publisher.GetByID(c.Request.Context(), db, id)
	if errors.Is(err, publisher.ErrNotFound) {
		fail(c, http.StatusNotFound, "publisher not found")
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func handleCreatePublisher(c *gin.Context, db *mongo.Database) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		fail(c, http.StatusBadRequest, "name is required")
		return
	}
	v, err := publisher.Create(c.Request.Context(), db, req.Name)
	if errors.Is(err, publisher.ErrNameTaken) {
		fail(c, http.StatusBadRequest, "publisher name already exists")
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

func handleUpdatePublisher(c *gin.Context, db *mongo.Database) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid publisher id")
		return
	}
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		fail(c, http.StatusBadRequest, "name is required")
		return
	}
	v, err := publisher.Update(c.Request.Context(), db, id, req.Name)
	if errors.Is(err, publisher.ErrNotFound) {
		fail(c, http.StatusNotFound, "publisher not found")
		return
	}
	if errors.Is(err, publisher.ErrNameTaken) {
		fail(c, http.StatusBadRequest, "publisher name already exists")
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func handleDeletePublisher(c *gin.Context, db *mongo.Database) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid publisher id")
		return
	}
	err = publisher.Delete(c.Request.Context(), db, id)
	if errors.Is(err, publisher.ErrNotFound) {
		fail(c, http.StatusNotFound, "publisher not found")
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "publisher deleted"})
}
