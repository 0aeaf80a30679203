// Package all wires all built-in storage backends into the storage factory.
//
// This package exists purely for side effects: importing it (even as a blank
// import) runs the init functions of each backend, which register their
// factories with the storage package. The kinds made available are:
//
//   - "sqlite"   (steamload/internal/storage/sqlite)
//   - "postgres" (steamload/internal/storage/postgres)
//
// Typical usage in a wiring layer:
//
//	import _ "steamload/internal/storage/all"
//
//	w, err := storage.New(ctx, storage.Config{Kind: "sqlite", DSN: "steam_games.db", Table: "steam_games"})
package all

import (
	_ "steamload/internal/storage/postgres"
	_ "steamload/internal/storage/sqlite"
)
