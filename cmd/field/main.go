package main

import (
	"context"
	"log"
	"os"

	"github.com/eventsync/eventsync/internal/buildinfo"
	"github.com/eventsync/eventsync/internal/field"
	"github.com/eventsync/eventsync/internal/field/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := field.NewApp(ctx, cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
