package main

import (
	"database/sql"
	"errors"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"part-sourcing-service/internal/adapters/repositories"
	"part-sourcing-service/internal/config"
	"part-sourcing-service/internal/platform/db"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	app := &cli.App{
		Name:  "dbtool",
		Usage: "manage the part sourcing database",
		Commands: []*cli.Command{
			{
				Name:   "init",
				Usage:  "create the sourcing schema (idempotent)",
				Action: runInit,
			},
			{
				Name:  "seed",
				Usage: "load parts, listings, and bids from a JSON seed file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "file",
						Value: config.Get("SEED_PATH", "data/seeds/sourcing.json"),
						Usage: "path to the JSON seed file",
					},
				},
				Action: runSeed,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openDB() (*sql.DB, error) {
	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		return nil, errors.New("DATABASE_URL is required")
	}

	return db.Open(databaseURL)
}

func runInit(c *cli.Context) error {
	pg, err := openDB()
	if err != nil {
		return err
	}
	defer pg.Close()

	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(pg); err != nil {
		return err
	}
	log.Println("Schema ready.")

	return nil
}

func runSeed(c *cli.Context) error {
	pg, err := openDB()
	if err != nil {
		return err
	}
	defer pg.Close()

	seedPath := c.String("file")

	log.Printf("Seeding database from %s...", seedPath)
	if err := repositories.SeedFromJSON(pg, seedPath); err != nil {
		return err
	}
	log.Println("Seeding complete.")

	return nil
}
