/*
Package ports defines the driven ports (interfaces) of the bot.

These interfaces decouple the conversation core from external implementations, allowing
it to work with various session backends and transports.

# Key Interfaces

  - SessionStore: Responsible for keeping per-user Session state.
  - DistributedLocker: Provides distributed locking for handling concurrent session access.
  - EventHandler: Processes one decoded inbound event and returns the replies.
*/
package ports
