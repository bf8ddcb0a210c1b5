// Package server provides the HTTP server implementation for the phobost API.
//
// The server package implements a layered architecture:
//
//   - Server: Dependencies (renderer, metrics, handlers) and startup
//   - Config: Server configuration with sensible defaults
//   - Router: Route registration and middleware pipeline
//   - Lifecycle: Bind, Serve and graceful shutdown of the accept loop
//
// The architecture follows the pattern: CLI → App → Server → Router → Handlers
//
// Usage:
//
//	cfg := server.DefaultConfig()
//	cfg.Port = 8080
//
//	srv, err := server.New(app, cfg)
//	if err != nil {
//	    return err
//	}
//
//	svc, err := srv.Start(ctx) // cancel ctx to shut down
//	if err != nil {
//	    return err
//	}
//	return svc.Wait()
package server

//go:generate gomarkdoc --output README.md .
