/*
Package ports defines the driven ports (interfaces) of the SilverConnect session engine.

These interfaces decouple the domain engines and the Facade from external
implementations, allowing them to work with various storage backends and catalog sources.

# Key Interfaces

  - CatalogProvider: Read-only source of Activity, Community, Person and template records.
  - UserDirectory: Account records used by the auth engine.
  - ClaimLedger: Atomic increment-if-capacity-available for bookings and memberships.
  - SessionStore: Persists session snapshots for "Stop & Resume" workflows.
  - DistributedLocker: Provides distributed locking for concurrent session access.
*/
package ports
