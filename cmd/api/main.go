package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/loziogigio/vinc-pim-sub014/internal/app/api"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("api exited: %v", err)
	}
}
