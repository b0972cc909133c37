// Package transport turns raw inbound events into typed commands.
//
// It is the only place where button payload prefixes and canned menu texts are
// interpreted; everything past Decode works on domain.Command values.
package transport
