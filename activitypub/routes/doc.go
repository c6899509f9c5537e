// Package routes describes the local URL scheme for published entities.
//
// A [Site] builds canonical URLs for local posts, actors and activities, and does the reverse: decides whether an inbound URL is local, and matches local paths against the fixed set of routes which can be resolved back to an entity.
package routes
