// Package middleware provides HTTP middleware for the storefront server:
// request IDs, request-scoped logging, and Prometheus metrics.
package middleware

// contextKey is a private type for context keys to avoid collisions.
type contextKey string
