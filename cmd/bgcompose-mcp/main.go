package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ironsheep/bgcompose-mcp/internal/compose"
	"github.com/ironsheep/bgcompose-mcp/internal/httpapi"
	"github.com/ironsheep/bgcompose-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const defaultHTTPAddr = "127.0.0.1:8000"

func main() {
	httpMode := false

	// Handle --version, --help and --http flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("bgcompose-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		case "--http":
			httpMode = true
		default:
			fmt.Fprintf(os.Stderr, "unknown option: %s\n", os.Args[1])
			os.Exit(2)
		}
	}

	// Log to stderr (stdout is for MCP protocol)
	level := slog.LevelInfo
	if strings.EqualFold(os.Getenv("BGCOMPOSE_LOG_LEVEL"), "debug") {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	logger.Debug("starting", "version", Version, "built", BuildTime, "commit", GitCommit)

	maxPixels := compose.DefaultMaxCanvasPixels
	if v := os.Getenv("BGCOMPOSE_MAX_CANVAS_PIXELS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			logger.Error("invalid BGCOMPOSE_MAX_CANVAS_PIXELS", "value", v, "error", err)
			os.Exit(1)
		}
		maxPixels = n
	}
	pipeline := compose.New(
		compose.WithLogger(logger),
		compose.WithMaxCanvasPixels(maxPixels),
	)

	if httpMode {
		if err := runHTTP(logger, pipeline); err != nil {
			logger.Error("http server error", "error", err)
			os.Exit(1)
		}
		return
	}

	srv := server.New(
		server.WithLogger(logger),
		server.WithPipeline(pipeline),
		server.WithVersion(Version),
	)

	if spec := os.Getenv("BGCOMPOSE_CACHE_FLUSH"); spec != "" {
		stop, err := srv.ScheduleCacheFlush(spec)
		if err != nil {
			logger.Error("cache flush disabled", "error", err)
		} else {
			defer stop()
		}
	}

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func runHTTP(logger *slog.Logger, pipeline *compose.Pipeline) error {
	addr := os.Getenv("BGCOMPOSE_HTTP_ADDR")
	if addr == "" {
		addr = defaultHTTPAddr
	}

	gin.SetMode(gin.ReleaseMode)
	api := httpapi.New(
		httpapi.WithLogger(logger),
		httpapi.WithPipeline(pipeline),
	)

	logger.Info("listening", "addr", addr)
	err := http.ListenAndServe(addr, api.Router())
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func printHelp() {
	fmt.Println("bgcompose-mcp - background compositing for image cutouts")
	fmt.Println()
	fmt.Println("Usage: bgcompose-mcp [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println("  --http           Serve the HTTP API instead of MCP over stdio")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  BGCOMPOSE_LOG_LEVEL=debug          Enable debug logging")
	fmt.Println("  BGCOMPOSE_HTTP_ADDR=host:port      HTTP listen address (default " + defaultHTTPAddr + ")")
	fmt.Println("  BGCOMPOSE_MAX_CANVAS_PIXELS=n      Largest canvas to render, 0 for no limit")
	fmt.Println("  BGCOMPOSE_CACHE_FLUSH=@every 30m   Clear the image cache on a cron schedule")
	fmt.Println()
	fmt.Println("Without --http the server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}
