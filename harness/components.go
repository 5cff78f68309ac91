package harness

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Shell designators accepted in step definitions.
const (
	ShellBash       = "bash"
	ShellPwsh       = "pwsh"
	ShellPowerShell = "powershell"
	ShellSh         = "sh"
	ShellCmd        = "cmd"
)

// RunsComposite is the only execution mode this harness understands.
const RunsComposite = "composite"

var knownShells = map[string]bool{
	ShellBash:       true,
	ShellPwsh:       true,
	ShellPowerShell: true,
	ShellSh:         true,
	ShellCmd:        true,
}

// ActionDefinition is the parsed composite action document (action.yml).
type ActionDefinition struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Author      string   `yaml:"author,omitempty"`
	Inputs      InputSet `yaml:"inputs"`
	Runs        Runs     `yaml:"runs"`
}

// ActionInput declares a single input of the composite action.
type ActionInput struct {
	Description string `yaml:"description"`
	Required    bool   `yaml:"required"`
	Default     string `yaml:"default,omitempty"`
}

// InputSet decodes the inputs mapping while preserving declaration order,
// which the YAML map type would lose. Validation errors are reported in the
// order inputs appear in the document.
type InputSet struct {
	Order  []string
	ByName map[string]ActionInput
}

func (s *InputSet) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("inputs must be a mapping, got %v", node.Kind)
	}
	s.Order = nil
	s.ByName = make(map[string]ActionInput, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var name string
		if err := node.Content[i].Decode(&name); err != nil {
			return fmt.Errorf("decoding input name: %w", err)
		}
		var in ActionInput
		if err := node.Content[i+1].Decode(&in); err != nil {
			return fmt.Errorf("decoding input %q: %w", name, err)
		}
		s.Order = append(s.Order, name)
		s.ByName[name] = in
	}
	return nil
}

// Runs names the execution mode and the ordered step sequence.
type Runs struct {
	Using string `yaml:"using"`
	Steps []Step `yaml:"steps"`
}

// Step is one declared unit of work in an action or workflow job.
type Step struct {
	Name  string            `yaml:"name"`
	ID    string            `yaml:"id,omitempty"`
	Shell string            `yaml:"shell,omitempty"`
	Run   string            `yaml:"run,omitempty"`
	Uses  string            `yaml:"uses,omitempty"`
	If    string            `yaml:"if,omitempty"`
	With  map[string]string `yaml:"with,omitempty"`
}

// OutputID returns the key segment used when recording this step's outputs.
// Steps without a stable id fall back to their display name.
func (s Step) OutputID() string {
	if s.ID != "" {
		return s.ID
	}
	return s.Name
}

// IsPowerShell reports whether the step runs under the PowerShell family,
// which uses its own output-emission and capability-detection idioms.
func (s Step) IsPowerShell() bool {
	return s.Shell == ShellPwsh || s.Shell == ShellPowerShell
}

// WorkflowDefinition is the parsed CI workflow document.
type WorkflowDefinition struct {
	Name        string             `yaml:"name"`
	On          map[string]Trigger `yaml:"on"`
	Permissions map[string]string  `yaml:"permissions,omitempty"`
	Jobs        map[string]Job     `yaml:"jobs"`
}

// Trigger holds the optional branch filters of one workflow event.
type Trigger struct {
	Branches []string `yaml:"branches,omitempty"`
}

// Job is one workflow job: runner label, optional matrix, ordered steps.
type Job struct {
	RunsOn   string    `yaml:"runs-on"`
	Strategy *Strategy `yaml:"strategy,omitempty"`
	Steps    []Step    `yaml:"steps"`
}

// Strategy carries the job matrix: axis name to ordered axis values.
// Values stay untyped because YAML version axes decode as ints.
type Strategy struct {
	Matrix map[string][]any `yaml:"matrix,omitempty"`
}
