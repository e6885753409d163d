package ingest

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/shiftsolve/shiftsolve/internal/domain"
)

// FromJSON decodes a JSON-encoded Input and converts it to a
// domain.Model, returning the id translation table alongside (see
// ModelFromRecords).
func FromJSON(r io.Reader) (*domain.Model, IDMap, error) {
	var input Input
	if err := json.NewDecoder(r).Decode(&input); err != nil {
		return nil, IDMap{}, fmt.Errorf("decode schedule input: %w", err)
	}
	return ModelFromRecords(input)
}
