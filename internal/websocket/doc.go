// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package websocket serves live title suggestions over a WebSocket.

A browser search box opens one socket and sends a query message on every
keystroke. Each query is answered with the current suggestions:

	-> {"type":"query","query":"nol"}
	<- {"type":"suggestions","query":"nol","titles":[...]}

Clients may also send {"type":"ping"} and receive {"type":"pong"}. Malformed
messages get an error reply and the session stays open.

# Sessions and the Hub

Each connection is a Client with a read goroutine and a write goroutine. The
read side calls the Suggester synchronously, so replies on one socket arrive in
query order. The Hub tracks open clients and, when its Serve context ends,
closes every session. The Hub runs as a supervised service.

The HTTP upgrade, origin checking and rate limiting live in the api package.
*/
package websocket
