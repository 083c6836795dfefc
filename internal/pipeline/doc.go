// Package pipeline runs the two passes over a read source: Classify
// assigns every identity a category and fills the statistics, Emit
// re-reads the source and routes each record to the sink of its category.
//
// The only contract to implement is Classifier (Classify). This keeps the
// pipeline swappable and testable.
package pipeline
