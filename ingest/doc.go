// Package ingest reads candidate documents, the output of an upstream
// extractor, and turns their candidates into typed records with positions.
//
// A candidate document is YAML or JSON:
//
//	id: doc-1
//	definitions:
//	  - {schema: MeltingPoint, field: specifier, text: "T_m"}
//	candidates:
//	  - schema: MeltingPoint
//	    method: sentence
//	    position: {section: 1, paragraph: 2, sentence: 0}
//	    fields: {raw_value: "120-125", raw_units: "°C", specifier: "mp"}
//	  - schema: Compound
//	    position: {section: 1, paragraph: 2, sentence: 1}
//	    fields: {names: [benzene]}
//
// The package also provides a Watcher that reports new and changed candidate
// files in a directory tree.
package ingest
