// Package postgres provides PostgreSQL implementations of the persistence
// ports defined in internal/store, the mapping from driver errors to store
// errors, and the embedded goose migrations that create the schema.
package postgres
