package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/dualband/internal/reconcile"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. Used for golden file names.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Values declares the named input values as four scalars each:
	// actual nominal, tolerance, measured nominal, precision.
	Values map[string][4]float64 `yaml:"values,omitempty"`

	// Flow is the sequence of algebra operations to execute.
	Flow []FlowStep `yaml:"flow,omitempty"`

	// Expect maps value names to expected components, checked after the
	// flow completes.
	Expect map[string]ExpectClause `yaml:"expect,omitempty"`

	// Assertions are property checks evaluated after the flow.
	Assertions []Assertion `yaml:"assertions,omitempty"`

	// Reconcile, when present, runs the shared-anchor diagnostic.
	Reconcile *ReconcileSpec `yaml:"reconcile,omitempty"`
}

// FlowStep is one algebra operation.
type FlowStep struct {
	// Op is one of add, sub, mul, scale, collapse, swap.
	Op string `yaml:"op"`

	// Left names the first operand. Required for every op.
	Left string `yaml:"left"`

	// Right names the second operand for binary ops.
	Right string `yaml:"right,omitempty"`

	// Blend is the multiplication blend weight; nil means exact (1.0).
	Blend *float64 `yaml:"blend,omitempty"`

	// Factor is the scalar for scale.
	Factor *float64 `yaml:"factor,omitempty"`

	// Result names the produced value.
	Result string `yaml:"result"`
}

// ExpectClause pins down the four components of a value, each compared
// within a tolerance.
type ExpectClause struct {
	ActualNominal   *float64 `yaml:"actual_nominal,omitempty"`
	Tolerance       *float64 `yaml:"tolerance,omitempty"`
	MeasuredNominal *float64 `yaml:"measured_nominal,omitempty"`
	Precision       *float64 `yaml:"precision,omitempty"`

	// Within is the comparison tolerance; 0 means the 1e-9 default.
	Within float64 `yaml:"within,omitempty"`
}

// Assertion is a property check over scenario values.
type Assertion struct {
	// Type selects the check; see the package documentation.
	Type string `yaml:"type"`

	// Target names the value for unary checks.
	Target string `yaml:"target,omitempty"`

	// Op, Left, Right configure binary property checks.
	Op    string `yaml:"op,omitempty"`
	Left  string `yaml:"left,omitempty"`
	Right string `yaml:"right,omitempty"`

	// ActualKnown selects the projection policy for projection checks.
	ActualKnown bool `yaml:"actual_known,omitempty"`

	// Nominal/Bound are expected projection components.
	Nominal *float64 `yaml:"nominal,omitempty"`
	Bound   *float64 `yaml:"bound,omitempty"`

	// Max is the limit for budget_max.
	Max float64 `yaml:"max,omitempty"`

	// Within is the comparison tolerance; 0 means the 1e-9 default.
	Within float64 `yaml:"within,omitempty"`
}

// ReconcileSpec configures the diagnostic part of a scenario.
type ReconcileSpec struct {
	Measurements []reconcile.Measurement `yaml:"measurements"`

	// Weighted selects inverse-variance anchor weighting.
	Weighted bool `yaml:"weighted,omitempty"`

	// Anchor, when present, is an explicit anchor.
	Anchor *reconcile.Anchor `yaml:"anchor,omitempty"`

	// TensorDistance, when present, also runs the merge with this
	// epistemic distance.
	TensorDistance *float64 `yaml:"tensor_distance,omitempty"`
}

// assertionTypes lists the supported assertion type names.
var assertionTypes = map[string]bool{
	"triangle_holds":    true,
	"triangle_violated": true,
	"commutes":          true,
	"conservative":      true,
	"involution":        true,
	"projection":        true,
	"budget_max":        true,
}

// binaryOps reports which flow ops take a right operand.
var binaryOps = map[string]bool{"add": true, "sub": true, "mul": true}

// unaryOps reports which flow ops take only a left operand.
var unaryOps = map[string]bool{"scale": true, "collapse": true, "swap": true}

// LoadScenario reads and validates a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}

	if err := validateScenario(&s); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}
	return &s, nil
}

// LoadScenarios loads every *.yaml scenario in a directory, sorted by
// file name for deterministic iteration.
func LoadScenarios(dir string) ([]*Scenario, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("scan scenarios: %w", err)
	}
	sort.Strings(matches)

	scenarios := make([]*Scenario, 0, len(matches))
	for _, path := range matches {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("scenario name is required")
	}
	if len(s.Values) == 0 && s.Reconcile == nil {
		return fmt.Errorf("scenario must declare values or a reconcile block")
	}

	defined := make(map[string]bool, len(s.Values))
	for name := range s.Values {
		defined[name] = true
	}

	for i, step := range s.Flow {
		if err := validateStep(i, step, defined); err != nil {
			return err
		}
		defined[step.Result] = true
	}

	for name := range s.Expect {
		if !defined[name] {
			return fmt.Errorf("expect references undefined value %q", name)
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, a, defined); err != nil {
			return err
		}
	}

	if s.Reconcile != nil && len(s.Reconcile.Measurements) == 0 {
		return fmt.Errorf("reconcile block has no measurements")
	}
	return nil
}

func validateStep(index int, step FlowStep, defined map[string]bool) error {
	switch {
	case binaryOps[step.Op]:
		if step.Right == "" {
			return fmt.Errorf("flow[%d]: op %q requires a right operand", index, step.Op)
		}
		if !defined[step.Right] {
			return fmt.Errorf("flow[%d]: undefined value %q", index, step.Right)
		}
	case unaryOps[step.Op]:
		if step.Right != "" {
			return fmt.Errorf("flow[%d]: op %q takes no right operand", index, step.Op)
		}
		if step.Op == "scale" && step.Factor == nil {
			return fmt.Errorf("flow[%d]: scale requires a factor", index)
		}
	default:
		return fmt.Errorf("flow[%d]: unknown op %q", index, step.Op)
	}

	if step.Left == "" || !defined[step.Left] {
		return fmt.Errorf("flow[%d]: undefined value %q", index, step.Left)
	}
	if step.Result == "" {
		return fmt.Errorf("flow[%d]: result name is required", index)
	}
	return nil
}

func validateAssertion(index int, a Assertion, defined map[string]bool) error {
	if !assertionTypes[a.Type] {
		return fmt.Errorf("assertions[%d]: unknown type %q", index, a.Type)
	}

	switch a.Type {
	case "commutes", "conservative":
		// Subtraction neither commutes nor carries the conservativity
		// contract, so only add and mul are accepted here.
		if a.Op != "add" && a.Op != "mul" {
			return fmt.Errorf("assertions[%d]: %s requires op add or mul", index, a.Type)
		}
		if !defined[a.Left] || !defined[a.Right] {
			return fmt.Errorf("assertions[%d]: undefined operand", index)
		}
	default:
		if !defined[a.Target] {
			return fmt.Errorf("assertions[%d]: undefined target %q", index, a.Target)
		}
	}
	return nil
}
