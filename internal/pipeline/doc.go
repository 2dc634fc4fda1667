// Package pipeline streams reads through the index classifier.
//
// A run moves Init → Validating → Streaming → Finalized, or ends in Failed
// at the first configuration, name or I/O error. Records are handled one at
// a time and reach their sink in input order. Every source and sink opened
// for the run is closed before Run returns, on every path.
package pipeline
