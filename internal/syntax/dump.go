package syntax

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
)

// DumpFormat selects the encoding used by Dump.
type DumpFormat string

const (
	DumpJSON DumpFormat = "json"
	DumpYAML DumpFormat = "yaml"
)

// Dump writes a structural view of script to w.
func Dump(w io.Writer, script *Script, format DumpFormat) error {
	doc := map[string]any{"statements": describeStatements(script.Statements)}

	switch format {
	case DumpJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode JSON: %w", err)
		}
		return nil
	case DumpYAML:
		payload, err := yaml.Marshal(doc)
		if err != nil {
			return fmt.Errorf("encode YAML: %w", err)
		}
		_, err = w.Write(payload)
		return err
	default:
		return fmt.Errorf("unsupported dump format %q", format)
	}
}

func describeStatements(stmts []Statement) []map[string]any {
	out := make([]map[string]any, 0, len(stmts))
	for _, stmt := range stmts {
		out = append(out, describeStatement(stmt))
	}
	return out
}

func describeStatement(stmt Statement) map[string]any {
	node := map[string]any{"line": stmt.Position().Line}

	switch s := stmt.(type) {
	case *Input:
		node["type"] = "input"
		node["path"] = s.Path
	case *Output:
		node["type"] = "output"
		node["path"] = s.Path
	case *Transform:
		node["type"] = "transform"
		assignments := make([]map[string]any, 0, len(s.Assignments))
		for _, a := range s.Assignments {
			assignments = append(assignments, map[string]any{
				"field": a.Field,
				"value": describeExpr(a.Value),
			})
		}
		node["assignments"] = assignments
	case *PrintLine:
		node["type"] = "print_line"
		node["number"] = s.Line
	case *PrintAll:
		node["type"] = "print"
	case *Let:
		node["type"] = "let"
		node["name"] = s.Name
		node["value"] = describeExpr(s.Value)
	}

	return node
}

func describeExpr(expr Expr) map[string]any {
	switch e := expr.(type) {
	case *FieldAccess:
		return map[string]any{"type": "field", "path": e.Path}
	case *StringLiteral:
		return map[string]any{"type": "string", "text": e.Text}
	case *Call:
		return map[string]any{"type": "call", "name": e.Name}
	case *Variable:
		return map[string]any{"type": "variable", "name": e.Name}
	case *MethodChain:
		ops := make([]map[string]any, 0, len(e.Ops))
		for _, op := range e.Ops {
			ops = append(ops, map[string]any{"method": op.Kind.String(), "text": op.Text})
		}
		return map[string]any{"type": "chain", "base": describeExpr(e.Base), "ops": ops}
	case *Concat:
		return map[string]any{"type": "concat", "left": describeExpr(e.Left), "right": describeExpr(e.Right)}
	default:
		return map[string]any{"type": "unknown"}
	}
}
