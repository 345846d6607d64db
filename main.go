package main

import (
	"shinkeireview/cmd/handlers"
	"shinkeireview/internal/logger"
)

func main() {
	logger.Init()
	handlers.Execute()
}
