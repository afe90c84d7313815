package registry

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// extensionFile is the YAML layout for additional operand definitions.
//
//	operands:
//	  - uri: "https://example.com/odrl/region"
//	    label: "Region"
//	    definition: "Sales region of the licensee."
//	    operators: ["eq", "isAnyOf", "isNoneOf"]
//	    value_type: "xsd:string"
type extensionFile struct {
	Operands []extensionOperand `yaml:"operands"`
}

type extensionOperand struct {
	URI        string   `yaml:"uri"`
	Label      string   `yaml:"label"`
	Definition string   `yaml:"definition"`
	Operators  []string `yaml:"operators"`
	ValueType  string   `yaml:"value_type"`
}

// Load reads operand extensions from r and returns the default registry
// extended with them.
func Load(r io.Reader) (*Registry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read operand extensions: %w", err)
	}

	var file extensionFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse operand extensions: %w", err)
	}

	operands := make([]OperandInfo, 0, len(file.Operands))
	for _, op := range file.Operands {
		operands = append(operands, OperandInfo{
			URI:        op.URI,
			Label:      op.Label,
			Definition: op.Definition,
			Operators:  op.Operators,
			ValueType:  op.ValueType,
		})
	}

	reg, err := Default().Extend(operands...)
	if err != nil {
		return nil, fmt.Errorf("invalid operand extensions: %w", err)
	}
	return reg, nil
}

// LoadFile is Load for a file path. An empty path returns the default registry.
func LoadFile(path string) (*Registry, error) {
	if path == "" {
		return Default(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open operand extensions %q: %w", path, err)
	}
	defer f.Close()

	return Load(f)
}
