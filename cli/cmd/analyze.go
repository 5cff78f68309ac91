package cmd

import (
	"fmt"
	"strings"

	"docsrelay/harness"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the security and convention heuristics",
	Long: `Analyze scans the action's step scripts for hardcoded credentials,
secure token usage, and cleanup commands, checks the operational
conventions around the wrangler configuration, and reports the CI test
matrix fan-out.

Extra secret patterns can be added under secret_patterns in the harness
config file.`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
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
	wf, err := loader.ParseWorkflow(cfg.WorkflowPath)
	if err != nil {
		return err
	}

	analyzer := harness.NewAnalyzer()
	for name, pattern := range cfg.SecretPatterns {
		if err := analyzer.AddSecretRule(name, pattern); err != nil {
			return err
		}
	}

	secrets := analyzer.AnalyzeSecrets(def.Runs.Steps)
	fmt.Printf("hardcoded secrets:   %t\n", secrets.HasHardcodedSecrets)
	fmt.Printf("secure token usage:  %t\n", secrets.UsesSecureTokens)
	fmt.Printf("cleanup commands:    %t\n", secrets.CleansUpResources)

	conventions := analyzer.CheckConventions(def)
	fmt.Printf("config-file check:   %t\n", conventions.ChecksForConfigFile)
	fmt.Printf("skip message:        %t\n", conventions.SkipsIfNotFound)
	fmt.Printf("output dir creation: %t\n", conventions.CreatesOutputDirectory)

	matrix := analyzer.AnalyzeMatrix(wf)
	fmt.Printf("test matrix:         %s x %s = %d combinations\n",
		strings.Join(matrix.OS, ","), strings.Join(matrix.NodeVersions, ","), matrix.TotalCombinations)

	if secrets.HasHardcodedSecrets {
		return fmt.Errorf("hardcoded credentials detected in step scripts")
	}
	return nil
}
