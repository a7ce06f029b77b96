package loader

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/olealberto/msds-460-assignment-two/internal/network"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

const smallJSON = `{
  "name": "small",
  "durations": {
    "optimistic": {"spec": 2, "build": 5},
    "pessimistic": {"spec": 4, "build": 9},
    "expected": {"spec": 3, "build": 7}
  },
  "roles": {"spec": ["pm"], "build": ["pm", "dev"]},
  "rates": {"pm": 50, "dev": 40},
  "precedences": {"spec": [], "build": ["spec"]}
}`

const smallHCL = `
name = "small"

role "pm" {
  rate = 50
}

role "dev" {
  rate = 40
}

activity "spec" {
  durations = { optimistic = 2, pessimistic = 4, expected = 3 }
  roles     = ["pm"]
}

activity "build" {
  durations  = { optimistic = 5, pessimistic = 9, expected = 7 }
  roles      = ["pm", "dev"]
  depends_on = ["spec"]
}
`

func checkSmall(t *testing.T, n *network.Network) {
	t.Helper()
	if n.Name() != "small" {
		t.Errorf("expected name small, got %q", n.Name())
	}
	if got := n.TopoOrder(); !reflect.DeepEqual(got, []string{"spec", "build"}) {
		t.Errorf("unexpected order %v", got)
	}
	if got := n.Duration("build", network.Pessimistic); got != 9 {
		t.Errorf("expected pessimistic build duration 9, got %v", got)
	}
	if got := n.Roles("build"); !reflect.DeepEqual(got, []string{"pm", "dev"}) {
		t.Errorf("unexpected build roles %v", got)
	}
	if got := n.Rate("dev"); got != 40 {
		t.Errorf("expected dev rate 40, got %v", got)
	}
	if got := n.Predecessors("build"); !reflect.DeepEqual(got, []string{"spec"}) {
		t.Errorf("unexpected predecessors %v", got)
	}
}

func TestLoad_JSON(t *testing.T) {
	n, err := Load(writeFile(t, "small.json", smallJSON))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	checkSmall(t, n)
}

func TestLoad_HCL(t *testing.T) {
	n, err := Load(writeFile(t, "small.hcl", smallHCL))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	checkSmall(t, n)
}

func TestLoad_NameDefaultsToFileName(t *testing.T) {
	src := strings.Replace(smallJSON, `"name": "small",`, "", 1)
	n, err := Load(writeFile(t, "launch.json", src))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if n.Name() != "launch" {
		t.Errorf("expected name launch, got %q", n.Name())
	}
}

func TestLoad_JSONDeclarationOrderFollowsPrecedences(t *testing.T) {
	src := `{
  "durations": {"expected": {"a": 1, "b": 1, "c": 1}},
  "roles": {"a": ["pm"], "b": ["pm"], "c": ["pm"]},
  "rates": {"pm": 1},
  "precedences": {"c": [], "a": [], "b": []}
}`
	def, err := ParseJSON([]byte(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var ids []string
	for _, a := range def.Activities {
		ids = append(ids, a.ID)
	}
	if !reflect.DeepEqual(ids, []string{"c", "a", "b"}) {
		t.Errorf("expected precedences key order, got %v", ids)
	}
}

func TestRoundTrip_Builtin(t *testing.T) {
	want := network.Builtin().Definition()

	for _, name := range []string{"launch.json", "launch.hcl"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			if err := Save(path, want); err != nil {
				t.Fatalf("save: %v", err)
			}
			n, err := Load(path)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if got := n.Definition(); !reflect.DeepEqual(got, want) {
				t.Errorf("round trip changed the definition\n got: %+v\nwant: %+v", got, want)
			}
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"invalid json", "bad.json", `{"durations": `},
		{"missing table", "bad.json", `{"durations": {}, "roles": {}, "rates": {}}`},
		{"rate not a number", "bad.json", `{"durations": {}, "roles": {}, "rates": {"pm": "fifty"}, "precedences": {}}`},
		{"roles not array", "bad.json", `{"durations": {}, "roles": {"a": "pm"}, "rates": {}, "precedences": {"a": []}}`},
		{"unknown scenario", "bad.json", `{"durations": {"likely": {"a": 1}}, "roles": {}, "rates": {}, "precedences": {"a": []}}`},
		{"undeclared roles", "bad.json", `{"durations": {}, "roles": {"ghost": ["pm"]}, "rates": {"pm": 1}, "precedences": {}}`},
		{"hcl syntax", "bad.hcl", `activity "a" {`},
		{"hcl missing rate", "bad.hcl", `role "pm" {}`},
		{"hcl unknown scenario", "bad.hcl", `activity "a" {
  durations = { likely = 1 }
  roles     = ["pm"]
}`},
		{"duplicate scenario alias", "bad.json", `{"durations": {"best": {"a": 1}, "optimistic": {"a": 2}}, "roles": {"a": ["pm"]}, "rates": {"pm": 1}, "precedences": {"a": []}}`},
		{"hcl duplicate scenario alias", "bad.hcl", `role "pm" {
  rate = 1
}

activity "a" {
  durations = { worst = 3, pessimistic = 4, optimistic = 1, expected = 2 }
  roles     = ["pm"]
}`},
		{"unsupported extension", "net.yaml", `name: x`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			if !errors.Is(err, ErrFormat) {
				t.Errorf("expected ErrFormat, got %v", err)
			}
			if !errors.Is(err, network.ErrConfig) {
				t.Errorf("expected ErrConfig, got %v", err)
			}
		})
	}
}

func TestLoad_InvalidNetwork(t *testing.T) {
	src := `{
  "durations": {"optimistic": {"a": 1}, "pessimistic": {"a": 1}, "expected": {"a": 1}},
  "roles": {"a": ["pm"]},
  "rates": {"pm": 10},
  "precedences": {"a": ["missing"]}
}`
	_, err := Load(writeFile(t, "net.json", src))
	if !errors.Is(err, network.ErrConfig) {
		t.Errorf("expected ErrConfig, got %v", err)
	}
	if errors.Is(err, ErrFormat) {
		t.Errorf("validation failures should not be format errors: %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}
