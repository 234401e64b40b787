package main

import (
	"eventra/core/logger"
	"eventra/core/server"
)

// @title Eventra API
// @version 1.0
// @description API backend for Eventra - turn free-form text into calendar events, synced to Google Calendar.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Example: "Bearer {token}"

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", "error", err)
	}
}
