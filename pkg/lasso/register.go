package lasso

import (
	"github.com/optbench/optbench/pkg/bench"
	"github.com/optbench/optbench/pkg/extproc"
)

// Register adds the lasso benchmark families to reg.
func Register(reg *bench.Registry) error {
	if err := reg.RegisterDataset("simulated", NewDataset); err != nil {
		return err
	}
	if err := reg.RegisterObjective("lasso", NewObjective); err != nil {
		return err
	}
	if err := reg.RegisterSolver("pgd", NewPGD); err != nil {
		return err
	}
	if err := reg.RegisterSolver("gd", NewGD); err != nil {
		return err
	}
	return reg.RegisterSolver("cli-pgd", func(params ...bench.Param) (bench.Solver, error) {
		prog, err := NewCLIProgram(params...)
		if err != nil {
			return nil, err
		}
		return extproc.New(prog)
	})
}
