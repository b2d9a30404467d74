// Package registry maps small integer handles to Go values that native code
// must be able to reach again later.
//
// Native callback descriptors carry an opaque user-data word that the
// simulator hands back to the trampoline on every invocation. Go pointers
// must never be stored there: the runtime may not keep them reachable, and
// cgo forbids it outright. Instead, the value is inserted into a Table and
// the integer Handle travels through native memory:
//
//	table := registry.NewTable[*entry]()
//
//	h, err := table.Insert(e)       // h is what goes into user_data
//	e, ok := table.Get(h)           // trampoline lookup
//	e, ok = table.Remove(h)         // explicit unregister
//	table.Close()                   // reclaim everything at teardown
//
// # Handles
//
// Handle 0 is reserved and always invalid, so a zero user-data word can never
// resolve to a value. A Handle packs a slot index and a generation counter;
// when a slot is reused after Remove, handles issued for the previous
// occupant stop resolving.
//
// # Observers
//
// Observers receive Inserted, Removed and Reclaimed events:
//
//	table.Subscribe(registry.ObserverFunc(func(e registry.Event) {
//	    log.Printf("slot %d: %s", e.Handle, e.Type)
//	}))
//
// # Memory Management
//
// Values are not garbage collected while registered. Remove or Close must be
// called, or the entry lives as long as the table.
package registry
