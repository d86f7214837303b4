package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"
)

// modelDoc is the on-disk shape of one model definition. Keys that are not
// fields land in Extra.
type modelDoc struct {
	Name          string         `mapstructure:"name"`
	SourceEntity  string         `mapstructure:"source_entity"`
	Table         string         `mapstructure:"table"`
	Schema        string         `mapstructure:"schema"`
	Database      string         `mapstructure:"database"`
	Columns       []columnDoc    `mapstructure:"columns"`
	ModelType     string         `mapstructure:"model_type"`
	WriteMode     string         `mapstructure:"write_mode"`
	Tags          []string       `mapstructure:"tags"`
	Cron          string         `mapstructure:"cron"`
	Enabled       *bool          `mapstructure:"enabled"`
	Debug         bool           `mapstructure:"debug"`
	Description   string         `mapstructure:"description"`
	SourceDSN     string         `mapstructure:"source_dsn"`
	SourceQuery   string         `mapstructure:"source_query"`
	PartitionedBy []string       `mapstructure:"partitioned_by"`
	Extra         map[string]any `mapstructure:",remain"`

	// hasColumns distinguishes "columns: []" from an absent key.
	hasColumns bool
	// hasTags distinguishes "tags: []" from an absent key.
	hasTags bool
	// extraKeys holds the Extra keys in file order.
	extraKeys []string
	line      int
}

// columnDoc is the on-disk shape of a column. Kind-specific keys are only
// honoured by the kind that has them.
type columnDoc struct {
	Name        string `mapstructure:"name"`
	Type        string `mapstructure:"type"`
	Nullable    *bool  `mapstructure:"nullable"`
	Order       *int   `mapstructure:"order"`
	Sensitive   bool   `mapstructure:"sensitive"`
	Description string `mapstructure:"description"`
	PrimaryKey  bool   `mapstructure:"primary_key"`
	Unique      bool   `mapstructure:"unique"`
	Precision   *int   `mapstructure:"precision"`
	Scale       *int   `mapstructure:"scale"`
	Length      *int   `mapstructure:"length"`
}

// parseDocuments decodes every YAML document in data. A document is either a
// single model mapping or a mapping with a top-level "models" list.
func parseDocuments(data []byte) ([]*modelDoc, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var docs []*modelDoc
	for {
		var root yaml.Node
		err := dec.Decode(&root)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ParseError{Message: fmt.Sprintf("invalid YAML: %v", err)}
		}
		if len(root.Content) == 0 {
			continue
		}

		body := root.Content[0]
		if body.Kind != yaml.MappingNode {
			return nil, &ParseError{Line: body.Line, Message: "expected a mapping"}
		}

		list := mappingValue(body, "models")
		if list == nil {
			doc, err := decodeModel(body)
			if err != nil {
				return nil, err
			}
			docs = append(docs, doc)
			continue
		}

		if len(body.Content) != 2 {
			return nil, &ParseError{Line: body.Line, Message: `"models" must be the only top-level key`}
		}
		if list.Kind != yaml.SequenceNode {
			return nil, &ParseError{Line: list.Line, Message: `"models" must be a list`}
		}
		for _, item := range list.Content {
			if item.Kind != yaml.MappingNode {
				return nil, &ParseError{Line: item.Line, Message: "each model must be a mapping"}
			}
			doc, err := decodeModel(item)
			if err != nil {
				return nil, err
			}
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

func decodeModel(node *yaml.Node) (*modelDoc, error) {
	var raw map[string]any
	if err := node.Decode(&raw); err != nil {
		return nil, &ParseError{Line: node.Line, Message: err.Error()}
	}

	doc := &modelDoc{line: node.Line}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      doc,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, fmt.Errorf("creating decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return nil, &ParseError{Line: node.Line, Message: err.Error()}
	}

	_, doc.hasColumns = raw["columns"]
	_, doc.hasTags = raw["tags"]
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		if _, ok := doc.Extra[key]; ok {
			doc.extraKeys = append(doc.extraKeys, key)
		}
	}
	return doc, nil
}

// mappingValue returns the value node for key, or nil.
func mappingValue(node *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

// exprValue reports whether v is written as {expr: "..."}.
func exprValue(v any) (string, bool) {
	m, ok := v.(map[string]any)
	if !ok || len(m) != 1 {
		return "", false
	}
	expr, ok := m["expr"].(string)
	return strings.TrimSpace(expr), ok
}
