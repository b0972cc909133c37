package venuebot

import _ "embed"

// Version is the release of the bot, read from the VERSION file.
//
//go:embed VERSION
var Version string
