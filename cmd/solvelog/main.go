package main

import (
	"log"

	"github.com/MrSnakeDoc/solvelog/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ solvelog failed to start: %v", err)
	}
}
