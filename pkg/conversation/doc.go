/*
Package conversation implements the venue discovery dialogue.

A Machine owns the transition table between the Idle, AwaitingCity, SelectingCity
and AwaitingCategory states. Every command is applied under the user's session lock:
the session is loaded, transitioned and saved as one step, so events of one user are
never interleaved.

Failures below the Machine never reach the user as errors. The city resolver cannot
fail and the catalog searcher degrades to an empty result, both of which map to a
polite message and a return to the main menu. Selections that no longer match the
session (a tap on an old keyboard, a city that was not offered) are dropped silently.
*/
package conversation
