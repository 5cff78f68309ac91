package cmd

import (
	"fmt"
	"sort"

	"docsrelay/harness"

	"github.com/spf13/cobra"
)

var simulateInputFlags []string

var simulateCmd = &cobra.Command{
	Use:   "simulate <step-name-or-id>",
	Short: "Dry-run one action step against a recording registry",
	Long: `Simulate interpolates the given inputs into the named step's script,
records its output emissions, and treats every other command line as a
successful no-op. Use --verbose to see the individual command lines.

Example:
  docsrelay simulate build
  docsrelay simulate "Detect wrangler configuration" --input server_port=9000
`,
	Args: cobra.ExactArgs(1),
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().StringArrayVar(&simulateInputFlags, "input", nil, "Input value as key=value (repeatable)")
}

func runSimulate(cmd *cobra.Command, args []string) error {
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

	validator := harness.NewValidator(def)
	step, ok := validator.StepByID(args[0])
	if !ok {
		step, ok = validator.StepByName(args[0])
	}
	if !ok {
		return fmt.Errorf("no step named or identified by %q", args[0])
	}

	inputs, err := parseKeyValues(simulateInputFlags)
	if err != nil {
		return err
	}

	// Every non-emission line dispatches into this catch-all, so the dry
	// run never needs real commands. The empty pattern matches any line.
	registry := harness.NewRegistry()
	registry.Register("", func() (any, error) { return nil, nil })

	result := harness.NewSimulator(l).Simulate(step, inputs, registry)
	if !result.Success {
		return fmt.Errorf("simulation failed: %s", result.Err)
	}

	if len(result.Outputs) == 0 {
		fmt.Println("step produced no outputs")
		return nil
	}

	keys := make([]string, 0, len(result.Outputs))
	for k := range result.Outputs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%s=%s\n", k, result.Outputs[k])
	}
	return nil
}
