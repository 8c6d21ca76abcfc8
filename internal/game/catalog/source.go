package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jackc/pgx/v5"
	"gopkg.in/yaml.v3"
)

// File is the top-level structure of a YAML card file.
type File struct {
	Cards []Definition `yaml:"cards"`
}

// LoadYAML decodes a card file and builds a validated catalog.
func LoadYAML(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return New(nil)
		}
		return nil, fmt.Errorf("parse card YAML: %w", err)
	}
	return New(f.Cards)
}

// LoadFile opens path and loads it with LoadYAML.
func LoadFile(path string) (*Catalog, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open card file: %w", err)
	}
	defer file.Close()

	return LoadYAML(file)
}

// Querier is the subset of pgxpool.Pool used to read definitions.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// LoadPostgres reads the JSONB "definition" column of table and builds a
// validated catalog.
func LoadPostgres(ctx context.Context, db Querier, table string) (*Catalog, error) {
	query := fmt.Sprintf("SELECT definition FROM %s ORDER BY id", pgx.Identifier{table}.Sanitize())
	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query card definitions: %w", err)
	}

	raw, err := pgx.CollectRows(rows, pgx.RowTo[[]byte])
	if err != nil {
		return nil, fmt.Errorf("failed to read card definitions: %w", err)
	}

	defs := make([]Definition, 0, len(raw))
	for i, data := range raw {
		var def Definition
		if err := json.Unmarshal(data, &def); err != nil {
			return nil, fmt.Errorf("failed to decode definition row %d: %w", i, err)
		}
		defs = append(defs, def)
	}
	return New(defs)
}
