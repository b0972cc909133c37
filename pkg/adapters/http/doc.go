// Package http exposes the bot over a small JSON API built on chi.
//
// A host (a messenger webhook bridge, a web chat widget) posts user events to
// /v1/events and delivers the replies it gets back. Replies are also pushed to
// server-sent event subscribers of the same user.
package http
