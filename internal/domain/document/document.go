// Package document models the JSON-shaped invoice/receipt records produced
// by the upstream extraction pipeline.
//
// Upstream extraction is best-effort, so every field access here is
// defensive: each field is resolved by walking a fixed priority list of
// known paths, and absence is reported through an ok flag rather than an
// error. The matching engine turns a missing field into a zero sub-score.
package document

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Document is a raw extracted document record. The shape is owned by the
// upstream extractor; only the paths below are interpreted here.
type Document map[string]interface{}

// Field paths tried in priority order. First present non-empty value wins.
var (
	vendorNamePaths = []string{"documentMetadata.source.name", "partyInformation.vendor.name", "companyName"}
	amountPaths     = []string{"financialData.totalAmount", "totalAmount"}
	datePaths       = []string{"documentMetadata.documentDate", "documentDate"}
)

// Lookup walks dot-separated paths in priority order and returns the first
// present, non-nil value.
func Lookup(doc Document, paths ...string) (interface{}, bool) {
	for _, path := range paths {
		if value, ok := lookupPath(doc, path); ok {
			return value, true
		}
	}
	return nil, false
}

func lookupPath(doc Document, path string) (interface{}, bool) {
	var current interface{} = map[string]interface{}(doc)
	for _, key := range strings.Split(path, ".") {
		node, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = node[key]
		if !ok || current == nil {
			return nil, false
		}
	}
	return current, true
}

// VendorName resolves the vendor name, or "" when no path holds one.
func (d Document) VendorName() string {
	for _, path := range vendorNamePaths {
		value, ok := lookupPath(d, path)
		if !ok {
			continue
		}
		if name, ok := value.(string); ok && strings.TrimSpace(name) != "" {
			return name
		}
	}
	return ""
}

// Amount resolves the document total. String values are cleaned of
// currency symbols and thousands separators before parsing.
func (d Document) Amount() (float64, bool) {
	for _, path := range amountPaths {
		value, ok := lookupPath(d, path)
		if !ok {
			continue
		}
		if amount, ok := coerceAmount(value); ok {
			return amount, true
		}
	}
	return 0, false
}

// Date resolves the document date as a YYYY-MM-DD string. No validation
// happens here; an unparsable date simply scores zero later.
func (d Document) Date() (string, bool) {
	for _, path := range datePaths {
		value, ok := lookupPath(d, path)
		if !ok {
			continue
		}
		if date, ok := value.(string); ok && strings.TrimSpace(date) != "" {
			return date, true
		}
	}
	return "", false
}

// ID returns the document's identity for claim bookkeeping. Records
// without a document_id report ok=false and the caller falls back to a
// positional key.
func (d Document) ID() (string, bool) {
	value, ok := d["document_id"]
	if !ok || value == nil {
		return "", false
	}
	switch id := value.(type) {
	case string:
		if id == "" {
			return "", false
		}
		return id, true
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64), true
	case int:
		return strconv.Itoa(id), true
	case json.Number:
		return id.String(), true
	default:
		return fmt.Sprintf("%v", id), true
	}
}

var amountCleaner = strings.NewReplacer(",", "", "$", "", " ", "")

func coerceAmount(value interface{}) (float64, bool) {
	switch amount := value.(type) {
	case float64:
		return amount, true
	case int:
		return float64(amount), true
	case json.Number:
		f, err := amount.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case string:
		cleaned := amountCleaner.Replace(strings.TrimSpace(amount))
		if cleaned == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
