// Package postgres implements the store ports on PostgreSQL through the pgx
// database/sql driver, and embeds the goose migrations that create the schema.
package postgres
