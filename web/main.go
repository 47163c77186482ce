package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/web/server"
)

func main() {
	// Parse command line flags
	port := flag.Int("port", 8080, "Port to serve on")
	sceneDir := flag.String("scenes", "scenes", "Directory of .json scene files")
	verbose := flag.Bool("v", false, "Log per-band progress")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	console := server.NewConsoleLog(500)
	stderr := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger := slog.New(server.NewConsoleHandler(console, stderr, slog.LevelInfo))
	core.SetLogger(logger)

	// Create and start web server
	webServer := server.NewServer(*port, *sceneDir, console)

	logger.Info("Sphere Tracer Web Server", "url", fmt.Sprintf("http://localhost:%d", *port))

	if err := webServer.Start(); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
