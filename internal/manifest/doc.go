// Package manifest implements the config store (C3): the committed,
// versioned document mapping tracked repository paths to their
// recipient-wrapped FileKeys.
//
// Manifest is a typed value with a validated constructor — unlike the
// untyped tree a dynamically-typed implementation might use, an
// unrecognized schema version fails loudly at Load rather than
// propagating nil map lookups downstream. Saves are atomic
// (write-temp, rename) and serialize with sorted keys and a trailing
// newline so unrelated changes never churn the committed bytes.
package manifest
