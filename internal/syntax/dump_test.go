package syntax

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/goccy/go-yaml"
)

const dumpSource = `
input "in.jsonl";
output "out.jsonl";
transform {
    id = serial();
    label = ("#" + @n).default("none");
}
`

func TestDumpJSON(t *testing.T) {
	t.Parallel()

	script, err := ParseString(dumpSource)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}

	var buf bytes.Buffer
	if err := Dump(&buf, script, DumpJSON); err != nil {
		t.Fatalf("Dump() error = %v", err)
	}

	var doc struct {
		Statements []struct {
			Type        string `json:"type"`
			Path        string `json:"path"`
			Line        int    `json:"line"`
			Assignments []struct {
				Field string         `json:"field"`
				Value map[string]any `json:"value"`
			} `json:"assignments"`
		} `json:"statements"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}

	if len(doc.Statements) != 3 {
		t.Fatalf("len(statements) = %d, want 3", len(doc.Statements))
	}
	if doc.Statements[0].Type != "input" || doc.Statements[0].Path != "in.jsonl" || doc.Statements[0].Line != 2 {
		t.Fatalf("statements[0] = %+v", doc.Statements[0])
	}

	transform := doc.Statements[2]
	if transform.Type != "transform" || len(transform.Assignments) != 2 {
		t.Fatalf("statements[2] = %+v", transform)
	}
	if got := transform.Assignments[0].Value["type"]; got != "call" {
		t.Fatalf("assignments[0].value.type = %v, want call", got)
	}
	if got := transform.Assignments[1].Value["type"]; got != "chain" {
		t.Fatalf("assignments[1].value.type = %v, want chain", got)
	}
}

func TestDumpYAML(t *testing.T) {
	t.Parallel()

	script, err := ParseString(dumpSource)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}

	var buf bytes.Buffer
	if err := Dump(&buf, script, DumpYAML); err != nil {
		t.Fatalf("Dump() error = %v", err)
	}

	var doc map[string][]map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}

	statements := doc["statements"]
	if len(statements) != 3 {
		t.Fatalf("len(statements) = %d, want 3", len(statements))
	}
	if statements[1]["type"] != "output" || statements[1]["path"] != "out.jsonl" {
		t.Fatalf("statements[1] = %v", statements[1])
	}
}

func TestDumpUnsupportedFormat(t *testing.T) {
	t.Parallel()

	if err := Dump(&bytes.Buffer{}, &Script{}, DumpFormat("xml")); err == nil {
		t.Fatal("Dump() error = nil, want error")
	}
}
