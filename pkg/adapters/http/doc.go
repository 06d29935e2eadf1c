/*
Package http exposes tutoring sessions over a JSON API.

Routes are served by chi. Live updates for a session are pushed as Server-Sent Events
on /sessions/{id}/events and as websocket messages on /sessions/{id}/ws. Both carry the
same two event types:

	snapshot   a domain.SnapshotDiff against the previous projection (the first one is full)
	cue        {"cue": "..."} for every audio cue the engine emits

Drags follow the payload protocol: POST /sessions/{id}/drag returns the envelope,
which the client sends back untouched in the body of POST /sessions/{id}/drop.

The StreamManager must be wired into the session.Manager that the Server uses:

	streams := http.NewStreamManager(logger)
	sessions := session.NewManager(ws,
		session.WithListener(streams.Publish),
		session.WithSinkFactory(streams.SinkFactory(mute, nil)),
	)
	srv, err := http.NewServer(http.Config{Catalog: ws, Sessions: sessions, Streams: streams})
*/
package http
