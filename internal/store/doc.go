// Package store provides a SQLite-backed library of saved filter documents.
//
// Each row holds one named filter: the JSON interchange document of its root
// compound, the root's ID and the tree fingerprint. Documents are checked
// against the CUE schema before they are written, so everything in the
// library decodes.
//
// # Ordering
//
//   - seq INTEGER is a logical clock bumped on every save; History orders by
//     seq ASC, name ASC COLLATE BINARY
//   - List orders by name ASC COLLATE BINARY
//   - saved_at is informational only
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// The store is type-agnostic. SaveTree and LoadTree bind it to a record type
// through the codec.
package store
