// Package profile holds the action map / action / binding data model and
// the stores that persist it.
//
// Snapshots are immutable: Load returns the current snapshot, and every
// mutation (update, clear, reset) deep-copies it, edits the copy, and
// publishes the copy wholesale. The binding matcher can therefore scan a
// snapshot concurrently with an active capture session without locks.
//
// Three binding states matter and are distinct:
//   - a default binding (IsDefault) from the game's stock profile,
//   - a user binding that shadows a default,
//   - a cleared binding ("js1_ ") that suppresses a default while mapping
//     nothing.
package profile
