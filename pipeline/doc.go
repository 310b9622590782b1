// Package pipeline resolves the candidates of one document into complete
// records.
//
// Resolution runs in passes over the candidates built from a document:
// updatable expressions are extended with the document definitions,
// contextual fields are filled from the nearest candidates, compatible
// records of the same schema are consolidated, and finally incomplete
// records and records carrying no extra information are dropped.
package pipeline
