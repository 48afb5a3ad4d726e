// Package main is the entry point for the AgentDesk session service.
//
// The service is the headless counterpart of a browser-based desktop
// shell: it owns window state, desktop icon layout, the sidebar chat and
// the per-app view state, and talks to an opaque backend for files,
// email, browsing and assistant replies.
//
// Architecture:
//
//	Shell (renderer) → AgentDesk (this service) → Backend API
//
// The server provides:
//   - REST API for window and app operations
//   - WebSocket event feed for live desktop updates
//   - SSE relay of streamed assistant replies
//   - Background notification polling
//
// Configuration:
//   - Environment variables (12-factor)
//   - Optional TOML overlay via DESKTOP_CONFIG
//   - CLI flags (override env vars)
//
// Usage:
//
//	# Production mode
//	./server -port 9000 -backend http://localhost:8000
//
//	# Development mode (colored logs, debug level)
//	./server -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
