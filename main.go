package main

import (
	"Drive/internal/server"
	"context"
	"fmt"
	"log"
	"time"
)

func main() {
	srv, cleanup, err := InitializeServer()
	if err != nil {
		log.Fatal(err)
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = srv.BlobStore.EnsureBucket(ctx)
	cancel()
	if err != nil {
		log.Fatalf("Failed to prepare blob storage: %v", err)
	}

	srv.JanitorService.StartCleanCycle()
	defer srv.JanitorService.StopClean()

	app := server.NewApp(srv)
	err = app.Listen(fmt.Sprintf(":%d", srv.Configuration.Server.Port))
	if err != nil {
		srv.LogService.Log.Errorf("Failed to start server: %v", err)
	}
}
