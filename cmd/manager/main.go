package main

import (
	"context"
	"log"
	"os"

	"github.com/eventsync/eventsync/internal/buildinfo"
	"github.com/eventsync/eventsync/internal/manager"
	"github.com/eventsync/eventsync/internal/manager/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := manager.NewApp(ctx, cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
