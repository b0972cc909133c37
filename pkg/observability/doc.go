/*
Package observability provides Prometheus instrumentation for the bot.

It exposes counters for state transitions and catalog requests (split by outcome so an
empty result and a failed request stay distinguishable), gauges for the directory size
and active mailboxes, and lifecycle hooks that feed the conversation state machine's
events into those collectors.
*/
package observability
