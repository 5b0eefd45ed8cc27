// Package document provides typed access to dynamic JSON documents.
//
// A Document is built incrementally from ordinary Go values and read back
// as a requested static type:
//
//	d := document.New()
//	d.Add("title", "The Hitchhiker's Guide to the Galaxy")
//	d.Add("year", 2005)
//
//	title, err := document.Get[string](d, "title")
//	year, err := document.Get[uint16](d, "year")
//
// Get separates the two ways a read can fail. A missing key returns a
// *KeyNotFoundError (matching ErrKeyNotFound); a present value with the wrong
// shape returns a *ConversionError (matching ErrConversion). Both carry a JSON
// snapshot of the document or value taken when the error was created.
//
// # Inline construction
//
// Build creates a document from an ordered list of fields:
//
//	movie := document.Build(
//		document.F("title", "The Hitchhiker's Guide to the Galaxy"),
//		document.F("release_date", 2005),
//	)
//
// # Text forms
//
// Encode and Decode convert to and from compact JSON, preserving field order.
// Canonical produces RFC 8785 output, and EncodeYAML and DecodeYAML use YAML.
// Select and Query evaluate RFC 9535 JSONPath expressions.
//
// # Concurrency
//
// Documents may be read concurrently. Add requires exclusive access.
package document
