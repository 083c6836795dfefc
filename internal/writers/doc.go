// Package writers turns extraction statistics into serialized outputs.
//
// Design:
//   - Writers own all presentation knowledge (JSON, TSV).
//   - The core only defines the snapshot's fields; byte layout lives here.
package writers
