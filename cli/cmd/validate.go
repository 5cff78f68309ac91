package cmd

import (
	"fmt"

	"docsrelay/harness"

	"github.com/spf13/cobra"
)

var validateInputFlags []string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the action and workflow definitions",
	Long: `Validate parses both definition documents, checks their structural
invariants, and optionally checks a set of supplied input values against
the action's declared required inputs.

Example:
  docsrelay validate
  docsrelay validate --input private_repo=acme/docs --input public_repo=acme/docs-public
`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringArrayVar(&validateInputFlags, "input", nil, "Input value as key=value (repeatable)")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	l := newLogger()
	loader := harness.NewLoader(".", l)

	def, err := loader.ParseAction(cfg.ActionPath)
	if err != nil {
		return err
	}
	fmt.Printf("action %q: %d inputs, %d steps\n", def.Name, len(def.Inputs.Order), len(def.Runs.Steps))

	wf, err := loader.ParseWorkflow(cfg.WorkflowPath)
	if err != nil {
		return err
	}
	fmt.Printf("workflow %q: %d triggers, %d jobs\n", wf.Name, len(wf.On), len(wf.Jobs))

	if len(validateInputFlags) > 0 {
		supplied, err := parseKeyValues(validateInputFlags)
		if err != nil {
			return err
		}

		validator := harness.NewValidator(def)
		validator.Strict = cfg.StrictConditions
		if errs := validator.ValidateInputs(supplied); len(errs) > 0 {
			for _, e := range errs {
				fmt.Println(e)
			}
			return fmt.Errorf("%d required input(s) missing", len(errs))
		}
		fmt.Println("all required inputs present")
	}

	return nil
}
