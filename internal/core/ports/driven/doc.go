// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - StatusFetcher: Fetches a single status from the remote API
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - SeenStore: Persistent dedup cache. Without it, dedup state lives
//     in memory and lasts one run.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
