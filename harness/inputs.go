package harness

import (
	"fmt"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

// Package-level validator instance
var validate = validator.New()

// WorkflowInput is the typed set of values a caller supplies for one
// simulation session. The four repository/credential fields are required;
// the server port defaults to wrangler's dev port when omitted.
type WorkflowInput struct {
	PrivateRepoToken string `mapstructure:"private_repo_token" validate:"required"`
	PublicRepoToken  string `mapstructure:"public_repo_token" validate:"required"`
	PrivateRepo      string `mapstructure:"private_repo" validate:"required"`
	PublicRepo       string `mapstructure:"public_repo" validate:"required"`
	ServerPort       string `mapstructure:"server_port" default:"8787"`
}

// NewWorkflowInput prepares a typed input set from raw values:
// defaults → value merging → validation, in that order.
func NewWorkflowInput(raw map[string]any) (*WorkflowInput, error) {
	in := &WorkflowInput{}

	if err := defaults.Set(in); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}

	if len(raw) > 0 {
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:      in,
			ErrorUnused: true,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create decoder: %w", err)
		}
		if err := decoder.Decode(raw); err != nil {
			return nil, fmt.Errorf("failed to apply input values: %w", err)
		}
	}

	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("input validation failed: %w", err)
	}

	return in, nil
}

// Map returns the inputs keyed by their declared action input names,
// ready for interpolation by the simulator.
func (in *WorkflowInput) Map() map[string]string {
	return map[string]string{
		"private_repo_token": in.PrivateRepoToken,
		"public_repo_token":  in.PublicRepoToken,
		"private_repo":       in.PrivateRepo,
		"public_repo":        in.PublicRepo,
		"server_port":        in.ServerPort,
	}
}
