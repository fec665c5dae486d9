// Package store declares the persistence ports of the hydration core: the
// append-only intake stream, user profiles, badges, the streak ledger and
// batch run bookkeeping. Implementations live in internal/platform/postgres.
package store
