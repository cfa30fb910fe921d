// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Collector: Queries one repository's API for metadata
//   - CollectorFactory: Creates collectors from configuration
//   - ResultWriter: Persists collected results
//   - ProgressReporter: Receives progress events during a run
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - CredentialStore: Repository credentials. Without it, only
//     unauthenticated repositories can be collected from.
//   - ConfigStore: Application configuration defaults.
//   - RunHistoryStore: Persisted run summaries. Without it, history is
//     not recorded.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or collector package
package driven
