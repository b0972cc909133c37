// Package dispatcher serializes inbound events per user.
//
// Every user with pending events owns a mailbox drained by a single goroutine, so
// events of one user are handled strictly in arrival order while different users
// proceed in parallel. A mailbox goroutine exits as soon as its queue is empty.
package dispatcher
