package harness

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// CapabilityOutputName is the fixed output recorded by the PowerShell
// try/fallback idiom: the block-open marker records "true", the block-close
// marker records "false". The surrounding scripts use the pair to detect
// whether the wrangler runtime is available.
const CapabilityOutputName = "wrangler_available"

var (
	// echo "key=value" >> $GITHUB_OUTPUT
	bashOutputPattern = regexp.MustCompile(`echo\s+"([A-Za-z0-9_-]+)=([^"]*)"\s*>>\s*"?\$GITHUB_OUTPUT"?`)
	// echo "key=value" >> $env:GITHUB_OUTPUT  (also Write-Output)
	pwshOutputPattern = regexp.MustCompile(`"([A-Za-z0-9_-]+)=([^"]*)"\s*>>\s*\$env:GITHUB_OUTPUT`)
)

// Result is the outcome of simulating one step. A handler failure is a
// first-class outcome, not an exception: it is captured here, never
// re-raised.
type Result struct {
	Success bool
	Outputs map[string]string
	Err     string
}

// Simulator interprets one step definition against a command mock registry:
// input interpolation, output-emission recognition, and line dispatch. No
// real shell, process, or network is involved.
type Simulator struct {
	l *slog.Logger
}

func NewSimulator(l *slog.Logger) *Simulator {
	if l == nil {
		l = slog.Default()
	}
	return &Simulator{l: l}
}

// Simulate interpolates inputs into the step's script body, then walks its
// lines: output-emission lines are recorded into the registry, everything
// else is dispatched to the registered mocks. The first handler failure
// halts processing. On success the returned outputs are the subset of the
// registry's output map belonging to this step.
func (s *Simulator) Simulate(step Step, inputs map[string]string, reg *Registry) Result {
	if strings.TrimSpace(step.Run) == "" {
		return Result{Success: true}
	}

	session := uuid.New().String()
	l := s.l.With("session", session, "step", step.OutputID())

	body := step.Run
	for key, value := range inputs {
		body = strings.ReplaceAll(body, fmt.Sprintf("${{ inputs.%s }}", key), value)
	}

	prefix := fmt.Sprintf("steps.%s.outputs.", step.OutputID())

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if step.IsPowerShell() {
			if isPwshEcho(line) {
				if m := pwshOutputPattern.FindStringSubmatch(line); m != nil {
					l.Debug("recording output", "key", m[1], "value", m[2])
					reg.SetOutput(prefix+m[1], m[2])
					continue
				}
			}
			if strings.Contains(line, "try {") {
				reg.SetOutput(prefix+CapabilityOutputName, "true")
				continue
			}
			if strings.HasPrefix(line, "}") && strings.Contains(line, "catch") {
				reg.SetOutput(prefix+CapabilityOutputName, "false")
				continue
			}
		} else if m := bashOutputPattern.FindStringSubmatch(line); m != nil {
			l.Debug("recording output", "key", m[1], "value", m[2])
			reg.SetOutput(prefix+m[1], m[2])
			continue
		}

		l.Debug("dispatching command", "line", line)
		if _, err := reg.Dispatch(line); err != nil {
			l.Warn("command failed", "line", line, "error", err)
			return Result{Success: false, Err: err.Error()}
		}
	}

	outputs := make(map[string]string)
	stepKey := fmt.Sprintf("steps.%s.", step.OutputID())
	for key, value := range reg.AllOutputs() {
		if strings.HasPrefix(key, stepKey) {
			outputs[key] = value
		}
	}
	return Result{Success: true, Outputs: outputs}
}

// isPwshEcho reports whether the line uses an echo-like command together
// with the PowerShell output sink.
func isPwshEcho(line string) bool {
	if !strings.Contains(line, "$env:GITHUB_OUTPUT") {
		return false
	}
	return strings.Contains(line, "echo") || strings.Contains(line, "Write-Output")
}
