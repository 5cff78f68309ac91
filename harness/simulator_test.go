package harness

import (
	"errors"
	"strings"
	"testing"
)

func TestSimulator_NoScriptIsNoop(t *testing.T) {
	sim := NewSimulator(nil)
	reg := NewRegistry()

	result := sim.Simulate(Step{Name: "Checkout", ID: "checkout", Uses: "actions/checkout@v4"}, nil, reg)
	if !result.Success {
		t.Errorf("no-script step failed: %+v", result)
	}
	if len(result.Outputs) != 0 {
		t.Errorf("no-script step produced outputs: %v", result.Outputs)
	}
}

func TestSimulator_BashOutputEmission(t *testing.T) {
	sim := NewSimulator(nil)
	reg := NewRegistry()

	step := Step{
		Name:  "Build",
		ID:    "build",
		Shell: ShellBash,
		Run:   `echo "result=success" >> $GITHUB_OUTPUT`,
	}

	result := sim.Simulate(step, nil, reg)
	if !result.Success {
		t.Fatalf("simulate failed: %+v", result)
	}
	if got := result.Outputs["steps.build.outputs.result"]; got != "success" {
		t.Errorf("steps.build.outputs.result = %q; want success", got)
	}
	if got, ok := reg.Output("steps.build.outputs.result"); !ok || got != "success" {
		t.Errorf("registry output = %q, %v; want success, true", got, ok)
	}
}

func TestSimulator_InputInterpolation(t *testing.T) {
	sim := NewSimulator(nil)
	reg := NewRegistry()

	var dispatched []string
	reg.Register("wrangler dev", func() (any, error) {
		dispatched = append(dispatched, "wrangler dev")
		return nil, nil
	})

	step := Step{
		Name:  "Preview",
		ID:    "preview",
		Shell: ShellBash,
		Run: strings.Join([]string{
			`npx wrangler dev --port ${{ inputs.server_port }}`,
			`echo "port=${{ inputs.server_port }}" >> $GITHUB_OUTPUT`,
		}, "\n"),
	}

	result := sim.Simulate(step, map[string]string{"server_port": "8787"}, reg)
	if !result.Success {
		t.Fatalf("simulate failed: %+v", result)
	}
	if got := result.Outputs["steps.preview.outputs.port"]; got != "8787" {
		t.Errorf("interpolated output = %q; want 8787", got)
	}
	if len(dispatched) != 1 {
		t.Errorf("dispatched %d commands; want 1", len(dispatched))
	}
}

func TestSimulator_PwshOutputEmission(t *testing.T) {
	sim := NewSimulator(nil)
	reg := NewRegistry()
	reg.Register("Test-Path", func() (any, error) { return true, nil })
	reg.Register("}", func() (any, error) { return nil, nil })

	step := Step{
		Name:  "Detect",
		ID:    "detect",
		Shell: ShellPwsh,
		Run: strings.Join([]string{
			`if (Test-Path source/wrangler.toml) {`,
			`  echo "has_config=true" >> $env:GITHUB_OUTPUT`,
			`}`,
		}, "\n"),
	}

	result := sim.Simulate(step, nil, reg)
	if !result.Success {
		t.Fatalf("simulate failed: %+v", result)
	}
	if got := result.Outputs["steps.detect.outputs.has_config"]; got != "true" {
		t.Errorf("steps.detect.outputs.has_config = %q; want true", got)
	}
}

func TestSimulator_PwshCapabilityMarkers(t *testing.T) {
	sim := NewSimulator(nil)
	reg := NewRegistry()
	reg.Register("wrangler --version", func() (any, error) { return "3.0.0", nil })
	reg.Register("Write-Host", func() (any, error) { return nil, nil })
	reg.Register("}", func() (any, error) { return nil, nil })

	step := Step{
		Name:  "Detect runtime",
		ID:    "detect",
		Shell: ShellPwsh,
		Run: strings.Join([]string{
			`try {`,
			`  wrangler --version`,
			`} catch {`,
			`  Write-Host "wrangler is not installed"`,
			`}`,
		}, "\n"),
	}

	result := sim.Simulate(step, nil, reg)
	if !result.Success {
		t.Fatalf("simulate failed: %+v", result)
	}
	// Both markers are processed in order, so the catch marker wins.
	if got := result.Outputs["steps.detect.outputs."+CapabilityOutputName]; got != "false" {
		t.Errorf("capability output = %q; want false", got)
	}
}

func TestSimulator_PwshTryWithoutCatchLeavesTrue(t *testing.T) {
	sim := NewSimulator(nil)
	reg := NewRegistry()
	reg.Register("wrangler --version", func() (any, error) { return "3.0.0", nil })
	reg.Register("}", func() (any, error) { return nil, nil })

	step := Step{
		Name:  "Detect runtime",
		ID:    "detect",
		Shell: ShellPwsh,
		Run:   "try {\n  wrangler --version\n}",
	}

	result := sim.Simulate(step, nil, reg)
	if !result.Success {
		t.Fatalf("simulate failed: %+v", result)
	}
	if got := result.Outputs["steps.detect.outputs."+CapabilityOutputName]; got != "true" {
		t.Errorf("capability output = %q; want true", got)
	}
}

func TestSimulator_HandlerFailureHalts(t *testing.T) {
	sim := NewSimulator(nil)
	reg := NewRegistry()

	var ran []string
	reg.Register("npm ci", func() (any, error) {
		ran = append(ran, "npm ci")
		return nil, errors.New("boom")
	})
	reg.Register("npm run docs", func() (any, error) {
		ran = append(ran, "npm run docs")
		return nil, nil
	})

	step := Step{
		Name:  "Build",
		ID:    "build",
		Shell: ShellBash,
		Run:   "npm ci\nnpm run docs",
	}

	result := sim.Simulate(step, nil, reg)
	if result.Success {
		t.Fatal("failing handler should fail the simulation")
	}
	if result.Err != "boom" {
		t.Errorf("Err = %q; want boom", result.Err)
	}
	if len(ran) != 1 {
		t.Errorf("ran = %v; processing should halt after the failure", ran)
	}
}

func TestSimulator_PlainErrorMessagePassesThrough(t *testing.T) {
	sim := NewSimulator(nil)
	reg := NewRegistry()
	reg.Register("git push", func() (any, error) { return nil, errors.New("oops") })

	result := sim.Simulate(Step{Name: "Push", ID: "push", Shell: ShellBash, Run: "git push origin main"}, nil, reg)
	if result.Success || result.Err != "oops" {
		t.Errorf("result = %+v; want failure with error oops", result)
	}
}

func TestSimulator_UnmockedLineFails(t *testing.T) {
	sim := NewSimulator(nil)
	reg := NewRegistry()

	result := sim.Simulate(Step{Name: "Build", ID: "build", Shell: ShellBash, Run: "npm ci"}, nil, reg)
	if result.Success {
		t.Fatal("unmocked line should fail the simulation")
	}
	if !strings.Contains(result.Err, "no mock registered") {
		t.Errorf("Err = %q; want a no-mock message", result.Err)
	}
}

func TestSimulator_OutputsFilteredByStep(t *testing.T) {
	sim := NewSimulator(nil)
	reg := NewRegistry()
	reg.SetOutput("steps.other.outputs.result", "stale")

	step := Step{Name: "Build", ID: "build", Shell: ShellBash, Run: `echo "result=ok" >> $GITHUB_OUTPUT`}
	result := sim.Simulate(step, nil, reg)
	if !result.Success {
		t.Fatalf("simulate failed: %+v", result)
	}
	if _, ok := result.Outputs["steps.other.outputs.result"]; ok {
		t.Error("outputs of other steps must not leak into the result")
	}
	if got := result.Outputs["steps.build.outputs.result"]; got != "ok" {
		t.Errorf("steps.build.outputs.result = %q; want ok", got)
	}
}

func TestSimulator_RealDetectStep(t *testing.T) {
	def := loadActionDef(t)
	v := NewValidator(def)

	step, ok := v.StepByID("detect")
	if !ok {
		t.Fatal("detect step not found")
	}

	reg := NewRegistry()
	reg.Register("Test-Path", func() (any, error) { return true, nil })
	reg.Register("Write-Host", func() (any, error) { return nil, nil })
	reg.Register("wrangler --version", func() (any, error) { return "3.57.0", nil })
	reg.Register("} else {", func() (any, error) { return nil, nil })
	reg.Register("}", func() (any, error) { return nil, nil })

	result := NewSimulator(nil).Simulate(step, nil, reg)
	if !result.Success {
		t.Fatalf("simulate failed: %+v", result)
	}
	if got := result.Outputs["steps.detect.outputs.has_config"]; got != "false" {
		t.Errorf("has_config = %q; want false (last emission wins)", got)
	}
	if got := result.Outputs["steps.detect.outputs."+CapabilityOutputName]; got != "false" {
		t.Errorf("capability output = %q; want false", got)
	}
}
