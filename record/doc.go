// Package record provides the declarative record model used to hold
// extracted observations and the engine that merges partial records into
// complete ones.
//
// # Schemas
//
// A [Schema] is an immutable, ordered table of [Field] descriptors built at
// definition time:
//
//	var Compound = record.NewSchema("Compound",
//		record.SetField("names", record.StringField(""), record.Updatable(`[A-Z]\w+`)),
//		record.SetField("labels", record.StringField("")),
//	)
//
// Each field has a [Kind] and flags: Required, Contextual (may be filled from
// surrounding context within a [ContextualRange]), Binding (must agree across
// nested records), Updatable (its parse expression can be extended per
// document through a [Session]) and IgnoreWhenMerging.
//
// # Records
//
// A [Record] stores values for one schema. Nested records and lists of
// records are owned by their parent and deep-copied on assignment.
//
// # Merging
//
// [Record.MergeContextual] copies contextual fields from another record
// found within range, [Record.MergeAll] fills every missing field, and
// [List.RemoveSubsets] drops records that carry no information beyond
// another record of the same schema. Binding values are propagated into
// nested records after every merge.
package record
