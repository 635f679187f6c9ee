// Package api embeds the OpenAPI document served and enforced by the HTTP adapter.
package api

import (
	_ "embed"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var document []byte

// Raw returns the document as served at /openapi.yaml.
func Raw() []byte {
	return document
}

// Load parses and validates the document. Servers are cleared so request
// routing matches on path only, whatever host the service runs behind.
func Load() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(document)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err = doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}
	doc.Servers = nil
	return doc, nil
}
