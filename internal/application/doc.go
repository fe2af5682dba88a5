// Package application provides application initialization and dependency wiring.
// It resolves the item catalog, builds the packing engine, handlers, routers,
// and HTTP server instances, making the main package cleaner and more focused
// on CLI parsing and orchestration.
package application
