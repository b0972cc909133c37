/*
Package domain contains the core domain models of the venue discovery bot.

It defines the entities the conversation state machine works with: cities and the
directory records they are built from, venue categories, venues returned by the
catalog, per-user sessions, decoded inbound commands and outbound replies. This
package is kept pure and free of external dependencies like I/O or persistence,
following Hexagonal Architecture principles.

# Key Entities

  - City: A resolved city with its opaque catalog identifier and display name.
  - Category: A venue category with a stable machine code and a display label.
  - Session: The transient per-user conversation state.
  - Command: A typed inbound command decoded once at the transport boundary.
  - Reply: A structural representation of what the host should send to the user.
*/
package domain
