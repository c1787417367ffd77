// Package history keeps a local journal of flow runs in SQLite.
//
// Every run is recorded when it starts and updated when it finishes,
// so past runs can be inspected after the fact:
//
//	store, err := history.Open(".ioflow/history.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	runs, err := store.List(ctx, history.Filter{Flow: "check", Limit: 10})
package history
