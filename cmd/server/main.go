package main

import (
	"context"
	"log"
	"net/http"

	"tapforge/internal/config"
	"tapforge/internal/serverapp"
)

func main() {
	cfg, err := config.Load("tapforge_config.yml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	handler, err := serverapp.NewHandler(serverapp.Options{
		Config:  cfg,
		Logger:  log.Default(),
		Context: context.Background(),
	})
	if err != nil {
		log.Fatalf("build server: %v", err)
	}

	log.Printf("tapforge listening on %s", cfg.Server.Addr)
	log.Fatal(http.ListenAndServe(cfg.Server.Addr, handler))
}
