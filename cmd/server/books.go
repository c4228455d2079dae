package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"bookstore/internal/author"
	"bookstore/internal/book"
	"bookstore/internal/publisher"
	"bookstore/pkg/models"
)

func handleListBooks(c *gin.Context, db *mongo.Database) {
	f := book.Filter{Title: c.Query("title")}

	if s := c.Query("author"); s != "" {
		oid, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			fail(c, http.StatusBadRequest, "invalid author id")
			return
		}
		f.Author = &oid
	}
	if s := c.Query("publisher"); s != "" {
		oid, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			fail(c, http.StatusBadRequest, "invalid publisher id")
			return
		}
		f.Publisher = &oid
	}

	views, err := book.Search(c.Request.Context(), db, f)
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func handleGetBook(c *gin.Context, db *mongo.Database) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid book id")
		return
	}
	v, err := book.GetByID(c.Request.Context(), db, id)
	if errors.Is(err, book.ErrNotFound) {
		fail(c, http.StatusNotFound, "book not found")
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

type bookCreateRequest struct {
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	Price         *float64     `json:"price"`
	CoverImage    string       `json:"coverImage"`
	PublishedYear *int         `json:"publishedYear"`
	Genre         string       `json:"genre"`
	Authors       []models.Ref `json:"authors"`
	Publisher     *models.Ref  `json:"publisher"`
}

func handleCreateBook(c *gin.Context, db *mongo.Database) {
	var req bookCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" || req.Description == "" || req.CoverImage == "" || req.Price == nil {
		fail(c, http.StatusBadRequest, "title, description, price and coverImage are required")
		return
	}
	if *req.Price < 0 {
		fail(c, http.StatusBadRequest, "price must not be negative")
		return
	}

	ctx := c.Request.Context()
	authorIDs := models.IDs(req.Authors)
	ok, err := author.ExistAll(ctx, db, authorIDs)
	if err != nil {
		serverError(c, err)
		return
	}
	if !ok {
		fail(c, http.StatusBadRequest, "unknown author reference")
		return
	}

	b := models.Book{
		Title:         req.Title,
		Description:   req.Description,
		Price:         *req.Price,
		CoverImage:    req.CoverImage,
		PublishedYear: req.PublishedYear,
		Genre:         req.Genre,
		Authors:       authorIDs,
	}
	if req.Publisher != nil {
		ok, err := publisher.Exists(ctx, db, req.Publisher.ID)
		if err != nil {
			serverError(c, err)
			return
		}
		if !ok {
			fail(c, http.StatusBadRequest, "unknown publisher reference")
			return
		}
		id := req.Publisher.ID
		b.Publisher = &id
	}

	v, err := book.Create(ctx, db, b)
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

// bookUpdateRequest distinguishes absent fields (left untouched) from
// supplied ones. Publisher needs the raw message: absent keeps the current
// reference, JSON null clears it, anything else replaces it.
type bookUpdateRequest struct {
	Title         *string         `json:"title"`
	Description   *string         `json:"description"`
	Price         *float64        `json:"price"`
	CoverImage    *string         `json:"coverImage"`
	PublishedYear *int            `json:"publishedYear"`
	Genre         *string         `json:"genre"`
	Authors       []models.Ref    `json:"authors"`
	Publisher     json.RawMessage `json:"publisher"`
}

func handleUpdateBook(c *gin.Context, db *mongo.Database) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid book id")
		return
	}
	var req bookUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx := c.Request.Context()
	set := bson.M{}
	if req.Title != nil {
		set["title"] = *req.Title
	}
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			fail(c, http.StatusBadRequest, "price must not be negative")
			return
		}
		set["price"] = *req.Price
	}
	if req.CoverImage != nil {
		set["coverImage"] = *req.CoverImage
	}
	if req.PublishedYear != nil {
		set["publishedYear"] = *req.PublishedYear
	}
	if req.Genre != nil {
		set["genre"] = *req.Genre
	}
	if req.Authors != nil {
		authorIDs := models.IDs(req.Authors)
		ok, err := author.ExistAll(ctx, db, authorIDs)
		if err != nil {
			serverError(c, err)
			return
		}
		if !ok {
			fail(c, http.StatusBadRequest, "unknown author reference")
			return
		}
		set["authors"] = authorIDs
	}

	unsetPublisher := false
	if len(req.Publisher) > 0 {
		if string(req.Publisher) == "null" {
			unsetPublisher = true
		} else {
			var ref models.Ref
			if err := json.Unmarshal(req.Publisher, &ref); err != nil {
				fail(c, http.StatusBadRequest, "invalid publisher reference")
				return
			}
			ok, err := publisher.Exists(ctx, db, ref.ID)
			if err != nil {
				serverError(c, err)
				return
			}
			if !ok {
				fail(c, http.StatusBadRequest, "unknown publisher reference")
				return
			}
			set["publisher"] = ref.ID
		}
	}

	v, err := book.Update(ctx, db, id, set, unsetPublisher)
	if errors.Is(err, book.ErrNotFound) {
		fail(c, http.StatusNotFound, "book not found")
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func handleDeleteBook(c *gin.Context, db *mongo.Database) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid book id")
		return
	}
	err = book.Delete(c.Request.Context(), db, id)
	if errors.Is(err, book.ErrNotFound) {
		fail(c, http.StatusNotFound, "book not found")
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "book deleted"})
}
