// Package store provides SQLite-backed history for reconciliation runs.
//
// The algebra and the diagnostic are persistence-free; recording runs is
// an opt-in concern of the CLI layer. The store keeps an append-only log
// of diagnostic invocations so past anchors, adjustments, and overlap
// verdicts can be listed and compared later.
//
// Ordering uses seq INTEGER (insertion order), never wall-clock
// timestamps, so listings are deterministic across machines. Measurement
// and interval payloads are stored as JSON with HTML escaping disabled
// and struct-ordered keys, so identical runs produce identical rows.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON
package store
