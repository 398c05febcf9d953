// Package store defines the persistence interfaces consumed by the service
// layer: user accounts with their credit ledger, append-only generation
// records, and content categories. Implementations live in
// internal/platform/postgres.
package store
