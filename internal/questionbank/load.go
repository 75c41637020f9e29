package questionbank

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed questions.json
var defaultBankJSON []byte

//go:embed schema.json
var bankSchemaJSON []byte

const bankSchemaURL = "schema://question-bank.json"

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// bankDocument is the on-disk layout of a question bank file.
type bankDocument struct {
	Version   int        `json:"version"`
	Questions []Question `json:"questions"`
}

// Default returns the question bank shipped with the binary.
func Default() (*Bank, error) {
	return Parse(defaultBankJSON)
}

// LoadFile reads and validates a question bank from a JSON file.
func LoadFile(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}
	b, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return b, nil
}

// Load returns the bank at path, or the built-in bank when path is empty.
func Load(path string) (*Bank, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}

// Parse validates raw JSON against the bank schema and builds a Bank.
func Parse(data []byte) (*Bank, error) {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	schema, err := bankSchema()
	if err != nil {
		return nil, fmt.Errorf("compile bank schema: %w", err)
	}
	if err := schema.Validate(inst); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var doc bankDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode question bank: %w", err)
	}
	return New(doc.Questions)
}

// bankSchema compiles the embedded schema once.
func bankSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		def, err := jsonschema.UnmarshalJSON(bytes.NewReader(bankSchemaJSON))
		if err != nil {
			compileErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(bankSchemaURL, def); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(bankSchemaURL)
	})
	return compiledSchema, compileErr
}
