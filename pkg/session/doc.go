/*
Package session implements session management and persistence orchestration.

It serializes every read-modify-write of a user's conversation state, combining
a reference-counted in-process lock with an optional distributed lock so that
several replicas can share one session backend.
*/
package session
