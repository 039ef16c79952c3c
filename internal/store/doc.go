// Package store provides a SQLite-backed entity store whose JSON columns are
// written and read through the provider's type mappings.
//
// It exists to exercise full write/read round trips of JSON model values:
// every JSON property is bound with TypeMapping.CreateParameter and
// materialized with the mapping's converter, exactly as a host ORM would.
//
// # Tables
//
//   - One table per entity, keyed by a TEXT id (UUIDv7).
//   - JSON properties use the mapping store type ("json").
//   - mysqljson_tables records the DDL of every ensured table.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
