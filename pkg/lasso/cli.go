package lasso

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/optbench/optbench/pkg/bench"
	"github.com/optbench/optbench/pkg/install"
)

// objectivePayload is the JSON exchanged with external lasso solvers.
type objectivePayload struct {
	X    [][]float64 `json:"X"`
	Y    []float64   `json:"y"`
	Lmbd float64     `json:"lmbd"`
}

// CLIProgram delegates the lasso to an external solver binary. The binary is
// invoked as `<binary> --n-iter N --data FILE --model FILE`, reads the JSON
// objective payload from the data file and writes its coefficient vector as
// a JSON array to the model file.
type CLIProgram struct {
	binary        string
	installScript string
	params        bench.Params
}

// NewCLIProgram builds the external solver family "cli-pgd". Recognized
// parameters: binary (required), install_script.
func NewCLIProgram(params ...bench.Param) (*CLIProgram, error) {
	p := &CLIProgram{params: bench.Params(params)}
	for _, pr := range p.params {
		switch pr.Key {
		case "binary":
			v, ok := pr.Value.(string)
			if !ok || v == "" {
				return nil, bench.NewConfigError("binary must be a non-empty string", nil)
			}
			p.binary = v
		case "install_script":
			v, ok := pr.Value.(string)
			if !ok {
				return nil, bench.NewConfigError("install_script must be a string", nil)
			}
			p.installScript = v
		default:
			return nil, bench.NewConfigError("unknown solver parameter "+pr.Key, nil)
		}
	}
	if p.binary == "" {
		return nil, bench.NewConfigError("cli-pgd requires the binary parameter", nil)
	}
	return p, nil
}

// Name is the solver family name.
func (p *CLIProgram) Name() string { return "cli-pgd" }

// Params are the construction parameters.
func (p *CLIProgram) Params() bench.Params { return p.params }

// Strategy declares the iteration sampling axis.
func (p *CLIProgram) Strategy() bench.SamplingStrategy { return bench.StrategyIteration }

// CommandLine returns the external invocation for nIter iterations.
func (p *CLIProgram) CommandLine(nIter int, dataFile, modelFile string) string {
	return fmt.Sprintf("%s --n-iter %d --data %s --model %s", p.binary, nIter, dataFile, modelFile)
}

// DumpObjective serializes the objective inputs to the data file.
func (p *CLIProgram) DumpObjective(dataFile string, params map[string]interface{}) error {
	X, okX := params["X"].([][]float64)
	y, okY := params["y"].([]float64)
	lmbd, okL := toFloat(params["lmbd"])
	if !okX || !okY || !okL {
		return bench.NewConfigError("cli-pgd requires objective parameters X, y and lmbd", nil)
	}

	payload, err := json.Marshal(objectivePayload{X: X, Y: y, Lmbd: lmbd})
	if err != nil {
		return err
	}
	return os.WriteFile(dataFile, payload, 0644)
}

// LoadResult deserializes the coefficient vector from the model file.
func (p *CLIProgram) LoadResult(modelFile string) ([]float64, error) {
	raw, err := os.ReadFile(modelFile)
	if err != nil {
		return nil, err
	}
	var beta []float64
	if err := json.Unmarshal(raw, &beta); err != nil {
		return nil, err
	}
	return beta, nil
}

// InstallSpec declares the binary as a script-installed dependency when an
// install script was configured, and mechanism "none" otherwise.
func (p *CLIProgram) InstallSpec() install.Spec {
	id := bench.NewIdentity(p.Name(), p.params...)
	if p.installScript == "" {
		return install.Spec{
			Solver:     id.DisplayName(),
			Descriptor: install.Descriptor{Mechanism: install.MechanismNone},
		}
	}
	return install.Spec{
		Solver: id.DisplayName(),
		Descriptor: install.Descriptor{
			Mechanism:  install.MechanismScript,
			ScriptPath: p.installScript,
			CmdName:    p.binary,
		},
	}
}
