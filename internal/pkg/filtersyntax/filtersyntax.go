// Package filtersyntax checks that a filter condition is a well-formed AIP-160 expression.
//
// Only the grammar is checked. Field names and value types are not resolved, so a condition
// that parses here can still be rejected by the span filter service.
package filtersyntax

import (
	"fmt"
	"strings"

	"go.einride.tech/aip/filtering"
)

// MaxLength bounds the size of a condition accepted for parsing.
const MaxLength = 4096

// Check parses condition and returns a descriptive error when it is not valid.
func Check(condition string) error {
	if strings.TrimSpace(condition) == "" {
		return fmt.Errorf("filter condition is empty")
	}
	if len(condition) > MaxLength {
		return fmt.Errorf("filter condition exceeds %d characters", MaxLength)
	}

	var p filtering.Parser
	p.Init(condition)
	if _, err := p.Parse(); err != nil {
		return fmt.Errorf("parse filter condition: %w", err)
	}
	return nil
}
