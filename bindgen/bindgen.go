// Package bindgen derives the shared generation plan for a package schema
// and defines the contract every target-language generator implements.
//
// The pipeline is: schema → Plan (filtering + all naming decisions) → three
// independent document generators (WIT IDL, Python source wrapper,
// TypeScript consumer bindings) that must agree bit-for-bit on names,
// arities, and type encodings. The plan exists so that agreement is by
// construction: collision renames, reserved-word escaping, and exportability
// are decided once, here, and never re-derived by a generator.
//
// Generation is synchronous, pure computation over the immutable schema; a
// given schema always produces identical documents.
package bindgen

// Document is one generated output file.
type Document struct {
	// Filename is the conventional name for the document, relative to the
	// output directory.
	Filename string
	// Content is the complete generated text.
	Content string
}

// Generator is implemented by each target-language generator. A generator
// returns every document it owns; documents are plain immutable strings
// written to storage by the caller.
type Generator interface {
	// Language names the generation target (e.g. "wit", "python",
	// "typescript").
	Language() string

	// Generate derives the target documents from the shared plan.
	Generate(plan *Plan) ([]Document, error)
}
