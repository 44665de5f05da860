// cmd/seeder/main.go
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"

	"github.com/pitchkit/outreach-backend/internal/config"
	"github.com/pitchkit/outreach-backend/internal/db"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on OS environment variables")
	}
	cfg := config.Load()

	conn, err := db.Connect(cfg.DSN())
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	for _, dir := range []string{"migrations", "seed"} {
		files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
		if err != nil {
			log.Fatal(err)
		}
		sort.Strings(files)

		for _, file := range files {
			content, err := os.ReadFile(file)
			if err != nil {
				log.Fatalf("failed to read %s: %v", file, err)
			}

			if _, err := conn.Exec(string(content)); err != nil {
				log.Fatalf("failed to execute %s: %v", file, err)
			}
			fmt.Printf("Applied: %s\n", file)
		}
	}

	fmt.Println("Database setup completed successfully!")
}
