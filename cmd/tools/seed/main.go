// Command seed resets the catalog collections to the demo data set and
// makes sure a demo user and admin account exist so login works out of the
// box. Destructive for books/authors/publishers; users are preserved.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"bookstore/internal/user"
	"bookstore/pkg/database"
	"bookstore/pkg/models"
)

func main() {
	_ = godotenv.Load()

	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	dbName := os.Getenv("MONGODB_DB")
	if dbName == "" {
		dbName = "bookstore"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := database.Connect(ctx, uri)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = database.Close(context.Background(), client) }()

	db := client.Database(dbName)
	if err := database.EnsureIndexes(ctx, db); err != nil {
		log.Fatal(err)
	}

	n, err := database.SeedCatalog(ctx, db)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("Seeded %d books into %s", n, dbName)

	accounts := []struct {
		username, email, password, role string
	}{
		{"demo", "demo@example.com", "demo1234", models.RoleUser},
		{"admin", "admin@example.com", "admin1234", models.RoleAdmin},
	}
	for _, a := range accounts {
		_, err := user.Create(ctx, db, a.username, a.email, a.password, a.role)
		if errors.Is(err, user.ErrTaken) {
			log.Printf("account %s already exists; skipping", a.email)
			continue
		}
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("created %s account %s", a.role, a.email)
	}
}
