package store

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/pmorvan/factuel/internal/model"
)

// corpusDoc is the YAML document shape for corpus export/import.
type corpusDoc struct {
	Facts []model.StoredFact `yaml:"facts"`
}

// ExportYAML writes the full corpus of a store as YAML.
func ExportYAML(ctx context.Context, s Store, w io.Writer) error {
	facts, err := s.ListFacts(ctx)
	if err != nil {
		return fmt.Errorf("export corpus: %w", err)
	}

	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(corpusDoc{Facts: facts})
}

// ImportYAML reads a YAML corpus document and inserts every fact into the
// store. Returns the number of facts imported.
func ImportYAML(ctx context.Context, s Store, r io.Reader) (int, error) {
	var doc corpusDoc
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return 0, fmt.Errorf("decode corpus: %w", err)
	}

	for i := range doc.Facts {
		if _, err := s.InsertFact(ctx, &doc.Facts[i]); err != nil {
			return i, fmt.Errorf("import fact %d: %w", i, err)
		}
	}
	return len(doc.Facts), nil
}
