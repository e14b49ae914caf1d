package remote

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed todos.schema.json
var rowsSchemaSource string

const rowsSchemaURL = "todos.schema.json"

var (
	rowsSchemaOnce sync.Once
	rowsSchema     *jsonschema.Schema
	rowSchema      *jsonschema.Schema
	rowsSchemaErr  error
)

func compiledRowsSchema() (*jsonschema.Schema, *jsonschema.Schema, error) {
	rowsSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.AssertFormat = true
		if err := compiler.AddResource(rowsSchemaURL, strings.NewReader(rowsSchemaSource)); err != nil {
			rowsSchemaErr = fmt.Errorf("load rows schema: %w", err)
			return
		}
		rowsSchema, rowsSchemaErr = compiler.Compile(rowsSchemaURL)
		if rowsSchemaErr != nil {
			rowsSchemaErr = fmt.Errorf("compile rows schema: %w", rowsSchemaErr)
			return
		}
		rowSchema, rowsSchemaErr = compiler.Compile(rowsSchemaURL + "#/items")
		if rowsSchemaErr != nil {
			rowsSchemaErr = fmt.Errorf("compile row schema: %w", rowsSchemaErr)
		}
	})
	return rowsSchema, rowSchema, rowsSchemaErr
}

// RowError describes a row returned by the data service that does not
// match the todos table shape.
type RowError struct {
	// Path is the location of the offending value, such as "0.task".
	Path string

	// Message is the validator's description of the problem.
	Message string
}

func (e *RowError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid todo rows: %s", e.Message)
	}
	return fmt.Sprintf("invalid todo rows at %s: %s", e.Path, e.Message)
}

// ValidateRows checks a JSON array of todo rows against the table schema.
func ValidateRows(data []byte) error {
	schema, _, err := compiledRowsSchema()
	if err != nil {
		return err
	}
	doc, err := decodeDocument(data)
	if err != nil {
		return err
	}
	return validateDocument(schema, doc, "")
}

// SplitRows separates the rows of a JSON array that match the table schema
// from those that do not. It fails only when data is not an array.
func SplitRows(data []byte) ([]json.RawMessage, []*RowError, error) {
	_, schema, err := compiledRowsSchema()
	if err != nil {
		return nil, nil, err
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, nil, fmt.Errorf("decode todo rows: %w", err)
	}

	valid := make([]json.RawMessage, 0, len(items))
	var rejected []*RowError
	for i, item := range items {
		doc, err := decodeDocument(item)
		if err == nil {
			err = validateDocument(schema, doc, strconv.Itoa(i))
		}
		if err != nil {
			var rowErr *RowError
			if !errors.As(err, &rowErr) {
				rowErr = &RowError{Path: strconv.Itoa(i), Message: err.Error()}
			}
			rejected = append(rejected, rowErr)
			continue
		}
		valid = append(valid, item)
	}
	return valid, rejected, nil
}

func decodeDocument(data []byte) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var doc any
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode todo rows: %w", err)
	}
	return doc, nil
}

func validateDocument(schema *jsonschema.Schema, doc any, prefix string) error {
	err := schema.Validate(doc)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	rowErr := firstSchemaError(ve)
	switch {
	case prefix == "":
	case rowErr.Path == "":
		rowErr.Path = prefix
	default:
		rowErr.Path = prefix + "." + rowErr.Path
	}
	return rowErr
}

func firstSchemaError(err *jsonschema.ValidationError) *RowError {
	for len(err.Causes) > 0 {
		err = err.Causes[0]
	}
	return &RowError{
		Path:    jsonPointerToPath(err.InstanceLocation),
		Message: err.Message,
	}
}

func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}
	return strings.ReplaceAll(ptr, "/", ".")
}
