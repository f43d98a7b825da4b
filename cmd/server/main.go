package main

import (
	"flag"
	"log"
	"net/http"

	"github.com/yourusername/wish-sky/internal/config"
	"github.com/yourusername/wish-sky/internal/server"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	addr := flag.String("addr", "", "HTTP service address (default :8080)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	store := server.NewWishStore(cfg.Server.MaxWishLength, cfg.Server.MaxStored)
	srv := server.NewServer(store)

	log.Printf("Starting server on %s", cfg.Server.Addr)
	if err := http.ListenAndServe(cfg.Server.Addr, srv.Handler()); err != nil {
		log.Fatal("ListenAndServe: ", err)
	}
}
