// Package vocab provides the ActivityStreams vocabulary used when publishing local content over ActivityPub.
//
// It covers the activity and object type names this project emits, the per-object property catalog, the canonical timestamp syntax, and an insertion-ordered JSON object type used for every payload. These are pure values and lookup tables, not routines for delivery or resolution.
package vocab
