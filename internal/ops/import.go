package ops

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Talal-Sharaa/ReceIT/internal/model"
	"github.com/Talal-Sharaa/ReceIT/internal/receit"
)

//go:embed import_schema.json
var importSchemaJSON string

var importSchema = jsonschema.MustCompileString("import_schema.json", importSchemaJSON)

type importFile struct {
	Receits []receit.Input `json:"receits"`
}

// ReadImportFile parses an export file. The document is first checked
// against the JSON Schema so structural problems surface with a path
// into the document, then every record goes through the same validation
// gate as interactive input.
func ReadImportFile(path string) ([]model.Receit, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := importSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("schema check %s: %w", path, err)
	}

	var file importFile
	dec := json.NewDecoder(bytes.NewReader(b))
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	out := make([]model.Receit, 0, len(file.Receits))
	for i, in := range file.Receits {
		rec, err := receit.Validate(in)
		if err != nil {
			return nil, fmt.Errorf("receits[%d]: %w", i, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// ImportReceits loads records from an export file into an owner's store.
func ImportReceits(store *receit.Store, path string) (int, error) {
	records, err := ReadImportFile(path)
	if err != nil {
		return 0, err
	}
	for i, rec := range records {
		if _, err := store.Create(rec); err != nil {
			return i, fmt.Errorf("receits[%d]: %w", i, err)
		}
	}
	return len(records), nil
}
