package harness

import (
	"fmt"
	"regexp"
)

// SecretReport accumulates the three security heuristics across all steps.
type SecretReport struct {
	HasHardcodedSecrets bool
	UsesSecureTokens    bool
	CleansUpResources   bool
}

// MatrixReport describes the test job's matrix fan-out.
type MatrixReport struct {
	OS                []string
	NodeVersions      []string
	TotalCombinations int
}

// ConventionReport holds the three operational-convention checks.
type ConventionReport struct {
	ChecksForConfigFile    bool
	SkipsIfNotFound        bool
	CreatesOutputDirectory bool
}

// Rule is one named scan pattern. Rules are matched against every non-empty
// step script body; the analyzer never does I/O of its own.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
}

// Analyzer scans step script bodies with regular expressions. This is a
// heuristic, not a guarantee: patterns can be extended per instance without
// touching the scan loop.
type Analyzer struct {
	secretRules []Rule
	tokenRule   *regexp.Regexp
	cleanupRule *regexp.Regexp

	configCheckRule *regexp.Regexp
	skipMessageRule *regexp.Regexp
	mkdirRule       *regexp.Regexp
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{
		secretRules: []Rule{
			// GitHub PAT shapes: classic (ghp_) and fine-grained (github_pat_).
			{Name: "classic-pat", Pattern: regexp.MustCompile(`ghp_[A-Za-z0-9]{36}`)},
			{Name: "fine-grained-pat", Pattern: regexp.MustCompile(`github_pat_[A-Za-z0-9_]{22,}`)},
		},
		tokenRule:   regexp.MustCompile(`\$\{\{\s*inputs\.[A-Za-z0-9_]*token[A-Za-z0-9_]*\s*\}\}`),
		cleanupRule: regexp.MustCompile(`rm\s+-rf\s+|Remove-Item\s+.*-Recurse`),

		configCheckRule: regexp.MustCompile(`-f\s+\S*wrangler\.toml|Test-Path\s+\S*wrangler\.toml`),
		skipMessageRule: regexp.MustCompile(`(?i)no wrangler\.toml found.*skipping`),
		mkdirRule:       regexp.MustCompile(`mkdir\s+-p\s+|New-Item\s+.*-ItemType\s+Directory`),
	}
}

// AddSecretRule registers an additional hardcoded-secret pattern.
func (a *Analyzer) AddSecretRule(name, pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid secret rule %q: %w", name, err)
	}
	a.secretRules = append(a.secretRules, Rule{Name: name, Pattern: re})
	return nil
}

// AnalyzeSecrets scans every step with a script body and OR-accumulates the
// three booleans. Steps without a body contribute nothing.
func (a *Analyzer) AnalyzeSecrets(steps []Step) SecretReport {
	var report SecretReport
	for _, step := range steps {
		if step.Run == "" {
			continue
		}
		for _, rule := range a.secretRules {
			if rule.Pattern.MatchString(step.Run) {
				report.HasHardcodedSecrets = true
				break
			}
		}
		if a.tokenRule.MatchString(step.Run) {
			report.UsesSecureTokens = true
		}
		if a.cleanupRule.MatchString(step.Run) {
			report.CleansUpResources = true
		}
	}
	return report
}

// AnalyzeMatrix reads the os and node-version axes of the test job's matrix.
// Duplicate axis values are not deduplicated, so a malformed matrix yields an
// inflated combination count; that is known behavior, kept as-is.
func (a *Analyzer) AnalyzeMatrix(wf *WorkflowDefinition) MatrixReport {
	report := MatrixReport{OS: []string{}, NodeVersions: []string{}}

	job, ok := wf.Jobs["test"]
	if !ok || job.Strategy == nil || job.Strategy.Matrix == nil {
		return report
	}

	report.OS = toStringSlice(job.Strategy.Matrix["os"])
	report.NodeVersions = toStringSlice(job.Strategy.Matrix["node-version"])
	report.TotalCombinations = len(report.OS) * len(report.NodeVersions)
	return report
}

// CheckConventions runs the three independent convention checks across all
// step bodies of the action.
func (a *Analyzer) CheckConventions(def *ActionDefinition) ConventionReport {
	var report ConventionReport
	for _, step := range def.Runs.Steps {
		if step.Run == "" {
			continue
		}
		if a.configCheckRule.MatchString(step.Run) {
			report.ChecksForConfigFile = true
		}
		if a.skipMessageRule.MatchString(step.Run) {
			report.SkipsIfNotFound = true
		}
		if a.mkdirRule.MatchString(step.Run) {
			report.CreatesOutputDirectory = true
		}
	}
	return report
}

// toStringSlice renders matrix axis values as strings. Version axes decode
// as ints, so numbers are formatted rather than rejected.
func toStringSlice(values []any) []string {
	result := make([]string, 0, len(values))
	for _, value := range values {
		switch v := value.(type) {
		case string:
			result = append(result, v)
		case int:
			result = append(result, fmt.Sprintf("%d", v))
		case float64:
			result = append(result, fmt.Sprintf("%g", v))
		case bool:
			result = append(result, fmt.Sprintf("%t", v))
		case nil:
			result = append(result, "")
		default:
			result = append(result, fmt.Sprintf("%v", v))
		}
	}
	return result
}
