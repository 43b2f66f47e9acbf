package main

import (
	"log"
	"os"

	"github.com/avolkov/kioskd/internal/buildinfo"
	"github.com/avolkov/kioskd/internal/server"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := server.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	if err := server.Run(cfg); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
