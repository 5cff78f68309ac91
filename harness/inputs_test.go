package harness

import "testing"

func TestNewWorkflowInput(t *testing.T) {
	in, err := NewWorkflowInput(map[string]any{
		"private_repo_token": "github_pat_aaaaaaaaaaaaaaaaaaaaaaaa",
		"public_repo_token":  "github_pat_bbbbbbbbbbbbbbbbbbbbbbbb",
		"private_repo":       "acme/docs-private",
		"public_repo":        "acme/docs-public",
	})
	if err != nil {
		t.Fatalf("NewWorkflowInput failed: %v", err)
	}

	if in.ServerPort != "8787" {
		t.Errorf("ServerPort = %q; want default 8787", in.ServerPort)
	}

	m := in.Map()
	if m["private_repo"] != "acme/docs-private" {
		t.Errorf("Map private_repo = %q; want acme/docs-private", m["private_repo"])
	}
	if m["server_port"] != "8787" {
		t.Errorf("Map server_port = %q; want 8787", m["server_port"])
	}
}

func TestNewWorkflowInput_PortOverride(t *testing.T) {
	in, err := NewWorkflowInput(map[string]any{
		"private_repo_token": "t1",
		"public_repo_token":  "t2",
		"private_repo":       "a/b",
		"public_repo":        "a/c",
		"server_port":        "9000",
	})
	if err != nil {
		t.Fatalf("NewWorkflowInput failed: %v", err)
	}
	if in.ServerPort != "9000" {
		t.Errorf("ServerPort = %q; want 9000", in.ServerPort)
	}
}

func TestNewWorkflowInput_MissingRequired(t *testing.T) {
	_, err := NewWorkflowInput(map[string]any{
		"private_repo_token": "t1",
		"public_repo_token":  "t2",
		"private_repo":       "a/b",
		// public_repo missing
	})
	if err == nil {
		t.Fatal("missing required input should fail validation")
	}
}

func TestNewWorkflowInput_UnknownKey(t *testing.T) {
	_, err := NewWorkflowInput(map[string]any{
		"private_repo_token": "t1",
		"public_repo_token":  "t2",
		"private_repo":       "a/b",
		"public_repo":        "a/c",
		"unexpected":         "value",
	})
	if err == nil {
		t.Fatal("unknown input keys should be rejected")
	}
}
