package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"

	"github.com/EmpoweredVote/turf-shapes/internal/config"
	"github.com/EmpoweredVote/turf-shapes/internal/server"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env.local")

	configPath := flag.String("config", "", "optional YAML config file")
	dir := flag.String("dir", "", "export directory to serve (default: env OUTPUT_DIR or ./output)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *dir != "" {
		cfg.OutputDir = *dir
	}

	srv, err := server.New(cfg.OutputDir)
	if err != nil {
		log.Fatalf("Failed to load export %s: %v", cfg.OutputDir, err)
	}

	fmt.Printf("Serving %s on port :%s...\n", cfg.OutputDir, cfg.Port)
	log.Fatal(http.ListenAndServe("0.0.0.0:"+cfg.Port, srv.Routes()))
}
