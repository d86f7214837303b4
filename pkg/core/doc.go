// Package core defines the shared vocabulary of bollhav.
//
// This package contains:
//   - Storage kinds (Database)
//   - Model semantics (ModelType, WriteMode)
//   - Schedule classification (BatchSize)
//   - The error taxonomy shared by column, batching and model
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
