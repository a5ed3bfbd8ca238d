package main

import (
	"github.com/ScholarLink/application_service/config"
	"github.com/ScholarLink/application_service/internal/api"
)

func main() {
	cfg := config.LoadConfig()
	api.StartServer(cfg)
}
