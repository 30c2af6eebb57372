package main

import (
	"log"

	"medscreen/asthmarisk/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		log.Fatalf("asthmarisk: %v", err)
	}
}
