/*
Package catalog talks to the remote venue catalog.

Client is a thin HTTP client for the catalog endpoints. It classifies failures as
transport, upstream or decode errors and owns response-shape defensiveness: raw JSON is
decoded loosely and a single default-value policy fills in missing fields.

Adapter sits between the conversation state machine and the Client. Its Search never
fails: every error is logged, counted and degraded to an empty result.
*/
package catalog
