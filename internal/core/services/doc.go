// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// CollectionRunner drives runs end to end; CollectorRegistry and
// RepositoryCatalog expose the available repository collectors.
package services
