// Package stores persists the installation ledger: the outcome of install
// checks and install attempts per solver and environment. Backed by SQLite
// with embedded migrations. Benchmark results are never stored here; Cost
// records belong to the external runner.
package stores
