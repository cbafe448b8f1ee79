package main

import (
	"trendscout/cmd/handlers"
	"trendscout/internal/logger"
)

func main() {
	logger.Init() // Initialize the logger
	handlers.Execute()
}
