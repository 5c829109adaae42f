package install

import "path/filepath"

// Environment is a named, isolated installation target. An empty Prefix
// denotes the ambient environment of the current process.
type Environment struct {
	// Name identifies the environment (e.g. "envA").
	Name string

	// Prefix is the environment's root directory, empty for the ambient
	// environment.
	Prefix string
}

// BinDir returns the environment's executable directory, empty for the
// ambient environment.
func (e Environment) BinDir() string {
	if e.Prefix == "" {
		return ""
	}
	return filepath.Join(e.Prefix, "bin")
}

// Python returns the interpreter used for package import checks.
func (e Environment) Python() string {
	if e.Prefix == "" {
		return "python"
	}
	return filepath.Join(e.BinDir(), "python")
}

// Pip returns the package manager executable for this environment.
func (e Environment) Pip() string {
	if e.Prefix == "" {
		return "pip"
	}
	return filepath.Join(e.BinDir(), "pip")
}

// String returns the environment name, or "current" for the ambient one.
func (e Environment) String() string {
	if e.Name == "" {
		return "current"
	}
	return e.Name
}
