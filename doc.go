/*
Package venuebot is a conversational front-end that helps a user discover local venues.

The bot asks for a city, resolves it against a directory loaded from a remote catalog,
asks for a venue category, queries the catalog and renders the venues it finds. It is
organised as a small hexagon: the dialogue core lives in pkg/conversation and works on
typed commands, while transports (HTTP, console) and stores (memory, Redis) plug in
through the interfaces in pkg/ports.

# Usage

Build a Bot from a configuration, load the city directory and hand events to it:

	package main

	import (
		"context"
		"log"

		"github.com/aretw0/venuebot"
		"github.com/aretw0/venuebot/internal/config"
		"github.com/aretw0/venuebot/pkg/domain"
	)

	func main() {
		cfg, err := config.Load("venuebot.yaml")
		if err != nil {
			log.Fatal(err)
		}
		bot, err := venuebot.New(cfg)
		if err != nil {
			log.Fatal(err)
		}
		defer bot.Close()

		ctx := context.Background()
		bot.Start(ctx)

		replies, err := bot.HandleEvent(ctx, domain.Event{
			User: domain.User{ID: "42", FirstName: "Аня"},
			Text: "Куда сходить",
		})
		if err != nil {
			log.Fatal(err)
		}
		for _, r := range replies {
			log.Println(r.Text)
		}
	}

# Dialogue

	Idle --"Куда сходить"--> AwaitingCity
	AwaitingCity --one match--> AwaitingCategory
	AwaitingCity --several matches--> SelectingCity --tap--> AwaitingCategory
	AwaitingCity --no match--> Idle
	AwaitingCategory --category tap--> Idle (venues or "nothing found")

Greetings, /start and help are answered in any state. Button taps that no longer match
the session are ignored without a reply.
*/
package venuebot
