package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/gihwan-dev/codehealth/schema"
	"gopkg.in/yaml.v3"
)

// ErrQuantNotFound is returned when the quantitative document does not exist.
var ErrQuantNotFound = errors.New("quantitative input not found")

// LoadQuantDocument reads a quantitative document. Unknown fields are ignored
// and malformed axis values decode as absent.
func LoadQuantDocument(path string) (*schema.QuantInput, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: --quant is required", ErrQuantNotFound)
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrQuantNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	in, err := ParseQuantDocument(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse JSON %s: %w", path, err)
	}
	return in, nil
}

// ParseQuantDocument decodes a quantitative document held in memory.
func ParseQuantDocument(data []byte) (*schema.QuantInput, error) {
	var in schema.QuantInput
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, err
	}
	return &in, nil
}

// LoadReviewDocument reads the optional qualitative review, written as YAML or JSON.
// An empty path or a missing file means no review was provided.
func LoadReviewDocument(path string) (*schema.ReviewDocument, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	doc, err := ParseReviewDocument(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse review %s: %w", path, err)
	}
	return doc, nil
}

// ParseReviewDocument decodes a review held in memory. JSON is accepted as YAML.
func ParseReviewDocument(data []byte) (*schema.ReviewDocument, error) {
	var doc schema.ReviewDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
