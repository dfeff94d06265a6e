package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"tapforge/internal/config"
	"tapforge/internal/serverapp"
)

// Convenience entry for `go run .`; the canonical binary lives in
// cmd/server.
func main() {
	cfg, err := config.Load("tapforge_config.yml")
	if err != nil {
		log.Fatal(err)
	}

	handler, err := serverapp.NewHandler(serverapp.Options{
		Config:  cfg,
		Logger:  log.Default(),
		Context: context.Background(),
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("tapforge listening on %s\n", cfg.Server.Addr)
	log.Fatal(http.ListenAndServe(cfg.Server.Addr, handler))
}
