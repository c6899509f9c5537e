// Package lookup resolves inbound ActivityPub object URLs back to local entities.
//
// This is a best-effort reverse lookup over untrusted input: foreign URLs, unrecognized paths, malformed identifiers and storage failures all end up as an explicit not-found or invalid [Status], never as an error.
package lookup
