// internal/pipeline/sim.go
package pipeline

import "bcseq-core/classify"

// Classifier is the minimal capability the pipeline needs.
// *classify.Classifier and fakes in tests satisfy it.
type Classifier interface {
	Classify(seq []byte) classify.Classification
}
