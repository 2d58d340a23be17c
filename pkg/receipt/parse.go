package receipt

import (
	"encoding/json"
	"fmt"
	"os"
)

// Parse parses a receipt document from its JSON wire form.
// Absent string fields default to empty, absent amounts to zero, and an
// absent item quantity to 1 - a malformed document never reaches the
// print pipeline as anything other than an error here.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse receipt: %w", err)
	}

	for i := range doc.Items {
		if doc.Items[i].Quantity == 0 {
			doc.Items[i].Quantity = 1
		}
	}

	return &doc, nil
}

// ParseFile parses a receipt document from disk
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read receipt file: %w", err)
	}

	return Parse(data)
}

// ToJSON converts a Document back to its JSON wire form
func (d *Document) ToJSON() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}
