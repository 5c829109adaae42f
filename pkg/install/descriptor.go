package install

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/optbench/optbench/pkg/bench"
)

// Mechanism selects how a solver's runtime dependency is checked, installed
// and uninstalled. Exactly one mechanism is declared per solver.
type Mechanism string

const (
	// MechanismNone declares no dependency; the solver is always installed.
	MechanismNone Mechanism = "none"

	// MechanismPackage installs a library package into the environment and
	// checks it by importing it there.
	MechanismPackage Mechanism = "package"

	// MechanismScript runs an arbitrary install script with the environment
	// directory as its argument and checks a command name on the
	// environment's execution path.
	MechanismScript Mechanism = "script"

	// MechanismConda installs a list of requirements through the
	// environment manager itself.
	MechanismConda Mechanism = "conda"
)

// Descriptor declares a solver's installation mechanism together with the
// fields that mechanism requires. Descriptors are validated at registration
// time; asking for a field of a mechanism that was not declared is a
// configuration error.
type Descriptor struct {
	Mechanism Mechanism `yaml:"mechanism" validate:"required,oneof=none package script conda"`

	// PackageName is the library package to install (package mechanism).
	PackageName string `yaml:"package_name,omitempty" validate:"required_if=Mechanism package"`

	// PackageInstall overrides the name passed to the package manager.
	// Defaults to PackageName.
	PackageInstall string `yaml:"package_install,omitempty"`

	// PackageImport overrides the import name used for the install check.
	// Defaults to PackageName.
	PackageImport string `yaml:"package_import,omitempty"`

	// ScriptPath is the install script to run (script mechanism).
	ScriptPath string `yaml:"script_path,omitempty" validate:"required_if=Mechanism script"`

	// CmdName is the command whose presence on the environment's execution
	// path marks the solver installed (script mechanism).
	CmdName string `yaml:"cmd_name,omitempty" validate:"required_if=Mechanism script"`

	// Requirements are the packages resolved by the environment manager
	// (conda mechanism).
	Requirements []string `yaml:"requirements,omitempty" validate:"required_if=Mechanism conda"`

	// Channel is an optional extra channel for the environment manager.
	Channel string `yaml:"channel,omitempty"`
}

var validate = validator.New()

// Validate checks that exactly the fields required by the declared mechanism
// are present.
func (d Descriptor) Validate() error {
	if err := validate.Struct(d); err != nil {
		return bench.NewConfigError(
			fmt.Sprintf("invalid installation descriptor for mechanism %q", d.Mechanism), err)
	}
	return nil
}

// ImportName returns the name imported to check a package install.
func (d Descriptor) ImportName() (string, error) {
	if d.Mechanism != MechanismPackage {
		return "", bench.NewConfigError(
			fmt.Sprintf("import name is only defined for the package mechanism, not %q", d.Mechanism), nil)
	}
	if d.PackageImport != "" {
		return d.PackageImport, nil
	}
	return d.PackageName, nil
}

// InstallName returns the name handed to the package manager.
func (d Descriptor) InstallName() (string, error) {
	if d.Mechanism != MechanismPackage {
		return "", bench.NewConfigError(
			fmt.Sprintf("install name is only defined for the package mechanism, not %q", d.Mechanism), nil)
	}
	if d.PackageInstall != "" {
		return d.PackageInstall, nil
	}
	return d.PackageName, nil
}

// Spec couples a descriptor with the display name of the solver it belongs
// to, so install failures can be reported against the solver.
type Spec struct {
	Solver     string
	Descriptor Descriptor
}

// Installable is the optional solver capability declaring a runtime
// dependency to manage.
type Installable interface {
	InstallSpec() Spec
}
