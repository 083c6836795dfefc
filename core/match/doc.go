// Package match finds a literal barcode inside a read, exactly or within
// an edit-distance budget k (substitutions + insertions + deletions).
//
// Three retrieval modes are provided:
//
//	FindAll   every non-dominated occurrence, ordered by start
//	FindFirst the leftmost occurrence, stopping the scan early
//	FindBest  the cheapest occurrence; ties go to the earliest start
//
// Insertions count read bases with no pattern counterpart; deletions
// count pattern bases missing from the read. Comparison is ordinal, so
// callers uppercase both sides first.
package match
