// Package dao exposes the typed operations of the wake-up clock store:
// one facade per entity (Alarms, Records, Settings) plus Restore for
// atomic whole-store replacement.
//
// Every mutating operation is atomic per call. One-shot reads honor
// context cancellation; Observe* methods return live sequences that
// re-emit after each committed write to their backing tables and
// terminate with a visible error if a re-run fails.
package dao
