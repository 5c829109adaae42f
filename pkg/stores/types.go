package stores

import "time"

// InstallStatus is one row of the installation ledger, keyed by solver
// display name and environment.
type InstallStatus struct {
	// Solver is the solver display name.
	Solver string

	// Environment is the environment name.
	Environment string

	// Mechanism is the installation mechanism last used.
	Mechanism string

	// Installed is the outcome of the most recent check or attempt.
	Installed bool

	// CheckedAt is the time of the most recent check.
	CheckedAt time.Time

	// InstalledAt is the time of the most recent successful install
	// attempt, zero when none succeeded yet.
	InstalledAt time.Time
}
