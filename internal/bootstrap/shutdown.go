package bootstrap

import (
	"context"
	"log/slog"

	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/database"
	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/server"
)

// ShutdownComponents holds all components that need graceful shutdown
type ShutdownComponents struct {
	Server *server.Server
	DBPool database.Pool
}

// GracefulShutdown performs graceful shutdown of all application components.
// The HTTP server stops accepting new requests first, in-flight requests
// drain within the context deadline, then the database pool closes.
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info("Shutting down server")

	if err := components.Server.Stop(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	if components.DBPool != nil {
		components.DBPool.Close()
	}

	slog.Info("Server stopped")
}
