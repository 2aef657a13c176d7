// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package models defines the API data structures shared by handlers and clients.

Key Components:

  - APIResponse: the {status, data, metadata, error} envelope every JSON
    endpoint returns
  - APIError and the error code constants
  - Response payloads for endpoints whose data is not an engine type
    (health, classification, analysis, partitions, similar titles)

Engine types such as recommend.Result and catalog.Title are returned as Data
directly; they already carry JSON tags.
*/
package models
