package harness

import (
	"fmt"
	"regexp"
	"strings"
)

// guardPattern is the single conditional shape the harness understands:
// steps.<id>.outputs.<name> == '<value>'
var guardPattern = regexp.MustCompile(`^steps\.([A-Za-z0-9_-]+)\.outputs\.([A-Za-z0-9_-]+)\s*==\s*'([^']*)'$`)

// Validator answers structural queries over one parsed action definition.
//
// With Strict unset (the default), guard expressions that do not match the
// supported shape evaluate as satisfied. This permissive fallback is a
// deliberate compatibility choice, not an oversight; callers that need
// stricter behavior set Strict, which hands unrecognized guards to the
// expression evaluator and fails closed when they cannot be evaluated to a
// boolean.
type Validator struct {
	def *ActionDefinition

	// Strict switches unrecognized guards from always-satisfied to
	// expression-evaluated, failing closed on evaluation errors.
	Strict bool

	eval *Evaluator
}

func NewValidator(def *ActionDefinition) *Validator {
	return &Validator{
		def:  def,
		eval: NewEvaluator(),
	}
}

// ValidateInputs checks the supplied values against the declared required
// inputs and returns one error string per missing input, in declaration
// order. An empty result means all required inputs are present.
func (v *Validator) ValidateInputs(supplied map[string]string) []string {
	var errs []string
	for _, name := range v.def.Inputs.Order {
		if !v.def.Inputs.ByName[name].Required {
			continue
		}
		if supplied[name] == "" {
			errs = append(errs, fmt.Sprintf("Missing required input: %s", name))
		}
	}
	return errs
}

// StepByName returns the first step with the given display name.
func (v *Validator) StepByName(name string) (Step, bool) {
	for _, s := range v.def.Runs.Steps {
		if s.Name == name {
			return s, true
		}
	}
	return Step{}, false
}

// StepByID returns the first step with the given stable id.
func (v *Validator) StepByID(id string) (Step, bool) {
	for _, s := range v.def.Runs.Steps {
		if s.ID == id {
			return s, true
		}
	}
	return Step{}, false
}

// ExtractCommands splits a step's script body into trimmed lines, dropping
// blanks and comment lines. A step with no script body yields nil.
func (v *Validator) ExtractCommands(step Step) []string {
	if step.Run == "" {
		return nil
	}
	var commands []string
	for _, line := range strings.Split(step.Run, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		commands = append(commands, line)
	}
	return commands
}

// EvaluateCondition reports whether the named step's guard is satisfied by
// the supplied output map. Steps without a guard are unconditional.
func (v *Validator) EvaluateCondition(stepName string, outputs map[string]string) bool {
	step, ok := v.StepByName(stepName)
	if !ok || step.If == "" {
		return true
	}

	guard := strings.TrimSpace(step.If)
	if m := guardPattern.FindStringSubmatch(guard); m != nil {
		key := fmt.Sprintf("steps.%s.outputs.%s", m[1], m[2])
		return outputs[key] == m[3]
	}

	if !v.Strict {
		return true
	}

	result, err := v.eval.EvalOutputs(guard, outputs)
	if err != nil {
		return false
	}
	b, ok := result.(bool)
	return ok && b
}
