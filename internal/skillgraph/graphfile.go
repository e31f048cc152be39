package skillgraph

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/mod/semver"
)

// FileVersion is the schema version written by Export and accepted
// (same major) by Parse.
const FileVersion = "1.0.0"

// File is the on-disk JSON form of a skill graph.
type File struct {
	Version string  `json:"version"`
	Skills  []Skill `json:"skills"`
}

// fileSchema constrains the structural shape of a graph file before
// any semantic validation runs.
var fileSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"version": map[string]any{"type": "string"},
		"skills": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id":            map[string]any{"type": "string", "minLength": 1},
					"name":          map[string]any{"type": "string"},
					"prerequisites": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"description":   map[string]any{"type": "string"},
					"category":      map[string]any{"type": "string"},
					"difficulty":    map[string]any{"type": "number", "minimum": 0, "maximum": 1},
				},
				"required": []any{"id", "name", "prerequisites"},
			},
		},
	},
	"required": []any{"version", "skills"},
}

var (
	compiledOnce   sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// compiledFileSchema compiles the graph file schema once per process.
func compiledFileSchema() (*jsonschema.Schema, error) {
	compiledOnce.Do(func() {
		// The jsonschema library expects a parsed JSON value, not raw bytes.
		b, err := json.Marshal(fileSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema definition: %w", err)
			return
		}
		var parsed any
		if err := json.Unmarshal(b, &parsed); err != nil {
			compileErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		const url = "schema://skill-graph.json"
		if err := c.AddResource(url, parsed); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(url)
	})
	return compiledSchema, compileErr
}

// Parse decodes a graph file, checks it against the JSON schema, builds
// the graph, and runs full structural validation. Every validation
// error found is folded into the returned error.
func Parse(data []byte) (*Graph, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse skill graph file: %w", err)
	}

	schema, err := compiledFileSchema()
	if err != nil {
		return nil, fmt.Errorf("compile graph file schema: %w", err)
	}
	if err := schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("skill graph file schema: %w", err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode skill graph file: %w", err)
	}

	if major := semver.Major("v" + f.Version); major != semver.Major("v"+FileVersion) {
		return nil, fmt.Errorf("unsupported skill graph file version %q", f.Version)
	}

	g := FromSkills(f.Skills)
	if err := g.Validate().Err(); err != nil {
		return nil, err
	}
	return g, nil
}

// LoadFile reads and parses a graph file from disk.
func LoadFile(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read skill graph %s: %w", path, err)
	}
	g, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load skill graph %s: %w", path, err)
	}
	return g, nil
}

// Export serializes the graph back to the file form, skills sorted by
// ID. Parse(Export(g)) reproduces an equivalent graph.
func (g *Graph) Export() ([]byte, error) {
	f := File{
		Version: FileVersion,
		Skills:  g.AllSkills(),
	}
	// Prerequisites of nil and [] must round-trip identically.
	for i := range f.Skills {
		if f.Skills[i].Prerequisites == nil {
			f.Skills[i].Prerequisites = []string{}
		}
	}
	b, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal skill graph: %w", err)
	}
	return b, nil
}
