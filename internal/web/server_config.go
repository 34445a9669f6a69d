package web

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvListenAddr = "MAPCANVAS_LISTEN"
	EnvDevMode    = "MAPCANVAS_DEV"

	DefaultListenAddr = "127.0.0.1:8080"
)

// ServerConfig contains settings for running the HTTP server. An empty
// ListenAddr disables the API.
type ServerConfig struct {
	ListenAddr string
	DevMode    bool
}

func DefaultServerConfigFromEnv(defaultListenAddr string) (ServerConfig, error) {
	listenAddr, set := os.LookupEnv(EnvListenAddr)
	if !set {
		listenAddr = defaultListenAddr
	}

	devMode := false
	if raw := os.Getenv(EnvDevMode); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return ServerConfig{}, fmt.Errorf("%s must be a boolean (got %q): %w", EnvDevMode, raw, err)
		}
		devMode = parsed
	}

	return ServerConfig{ListenAddr: listenAddr, DevMode: devMode}, nil
}
