package main

import (
	"context"
	"log"
	"os"

	"github.com/avolkov/kioskd/internal/buildinfo"
	"github.com/avolkov/kioskd/internal/client/cli"
	"github.com/avolkov/kioskd/internal/client/config"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()

	c := config.LoadConfig()

	app, err := cli.NewApp(c)
	if err != nil {
		log.Fatalf("Error initializing app: %v", err)
	}

	app.Run(ctx)
}
