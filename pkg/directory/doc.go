/*
Package directory turns the catalog's city list into a lookup keyed by normalized name
and resolves free-text user input against it.

A Directory is immutable once built. The Store holds the current Directory and swaps it
atomically on refresh, so readers never observe a half-built map.
*/
package directory
