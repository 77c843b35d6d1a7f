package api

import (
	"log"
	"os"

	"Daybook/controllers"
	"Daybook/seed"

	"github.com/joho/godotenv"
)

var server = controllers.Server{}

// Run boots the API: env, database, migrations and the HTTP router.
func Run() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, reading configuration from the environment")
	}

	server.Initialize(
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_NAME"),
	)

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		seed.Load(server.DB)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	apiPort := ":" + port

	log.Printf("Listening on port %s", apiPort)
	server.Run(apiPort)
}
