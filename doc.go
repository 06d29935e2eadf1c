/*
Package workshop is a drag-and-drop grammar tutoring engine.

Learners move items (concepts, sentences, connectors, sentence tiles) from a bank into
target zones. The engine verifies each move against the exercise rules, gives immediate
feedback through cues and explanations, and returns wrong answers to the bank after a
delay. A construction variant instead builds an ordered sentence and verifies it on demand.

# Concept

An Exercise is pure data: problems, items, zones and a Rules value that selects the
layout (single slot, multi slot or sequence), the verification mode and the answer shape.
One engine runs every exercise. Hosts (the terminal runner, the HTTP server, the MCP
server) only translate gestures into drops and render the resulting Snapshot.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/workshop"
	)

	func main() {
		ws, err := workshop.New()
		if err != nil {
			log.Fatal(err)
		}

		ctx := context.Background()
		session, err := ws.Start(ctx, "foundations", nil)
		if err != nil {
			log.Fatal(err)
		}
		defer session.Close()

		res := session.DropItem(ctx, "c1", "d1")
		fmt.Println(res.Outcome, session.Snapshot().Progress.Correct)
	}

# Catalogs

The default catalog is embedded. WithCatalogPath reads a YAML/JSON catalog file or a
directory of Markdown exercise documents; WithLoader accepts any ports.CatalogLoader.
*/
package workshop
