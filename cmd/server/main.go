package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"bookstore/internal/auth"
	"bookstore/pkg/database"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	uri := getenv("MONGODB_URI", "mongodb://localhost:27017")
	dbName := getenv("MONGODB_DB", "bookstore")
	port := getenv("PORT", "5000")
	jwtSecret := []byte(getenv("JWT_SECRET", "dev-secret-change-me"))

	ctx := context.Background()
	client, err := database.Connect(ctx, uri)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := database.Close(context.Background(), client); err != nil {
			log.Printf("warn: %v", err)
		}
	}()

	db := client.Database(dbName)
	if err := database.EnsureIndexes(ctx, db); err != nil {
		log.Fatal(err)
	}

	r := gin.Default()
	r.Use(cors.Default())

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	api := r.Group("/api")

	// PUBLIC CATALOG
	api.GET("/books", func(c *gin.Context) { handleListBooks(c, db) })
	api.GET("/books/:id", func(c *gin.Context) { handleGetBook(c, db) })
	api.GET("/authors", func(c *gin.Context) { handleListAuthors(c, db) })
	api.GET("/authors/:id", func(c *gin.Context) { handleGetAuthor(c, db) })
	api.GET("/publishers", func(c *gin.Context) { handleListPublishers(c, db) })
	api.GET("/publishers/:id", func(c *gin.Context) { handleGetPublisher(c, db) })

	// AUTH
	api.POST("/user/auth/register", func(c *gin.Context) { handleRegister(c, db) })
	api.POST("/user/auth/login", func(c *gin.Context) { handleUserLogin(c, db, jwtSecret) })
	api.POST("/user/auth/admin/login", func(c *gin.Context) { handleAdminLogin(c, db, jwtSecret) })

	// AUTHENTICATED
	authed := api.Group("/user/books")
	authed.Use(auth.RequireJWT(jwtSecret))
	authed.POST("/purchase", func(c *gin.Context) { handlePurchase(c, db) })
	authed.GET("/purchased", func(c *gin.Context) { handlePurchased(c, db) })

	// ADMIN CATALOG MANAGEMENT
	admin := api.Group("/")
	admin.Use(auth.RequireJWT(jwtSecret), auth.RequireAdmin())
	admin.POST("/books", func(c *gin.Context) { handleCreateBook(c, db) })
	admin.PUT("/books/:id", func(c *gin.Context) { handleUpdateBook(c, db) })
	admin.DELETE("/books/:id", func(c *gin.Context) { handleDeleteBook(c, db) })
	admin.POST("/authors", func(c *gin.Context) { handleCreateAuthor(c, db) })
	admin.PUT("/authors/:id", func(c *gin.Context) { handleUpdateAuthor(c, db) })
	admin.DELETE("/authors/:id", func(c *gin.Context) { handleDeleteAuthor(c, db) })
	admin.POST("/publishers", func(c *gin.Context) { handleCreatePublisher(c, db) })
	admin.PUT("/publishers/:id", func(c *gin.Context) { handleUpdatePublisher(c, db) })
	admin.DELETE("/publishers/:id", func(c *gin.Context) { handleDeletePublisher(c, db) })

	log.Printf("HTTP API listening on :%s", port)
	log.Fatal(r.Run(":" + port))
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}

// serverError logs the real failure and hands the client a generic message.
func serverError(c *gin.Context, err error) {
	log.Printf("error: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	fail(c, http.StatusInternalServerError, "server error")
}
