// Package redis shares conversation sessions and per-user locks between bot replicas through Redis.
//
// Sessions always carry a TTL: the store exists so several replicas see the same dialogue,
// not to keep dialogues across long outages.
package redis
