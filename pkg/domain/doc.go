/*
Package domain contains the core domain models of the SilverConnect session engine.

It defines the fundamental entities shared by every domain engine: the per-user Session
(the mutable data bag plus current-state pointer), the closed set of StateKinds, the
Transition value a state returns, catalog entities and the error taxonomy. This package
is kept pure and free of external dependencies like I/O or persistence.

# Key Entities

  - Session: Per-user, per-engine context (username, payload fields, current state).
  - StateKind: Discriminated tag of a state; one constant per state across all engines.
  - Transition: Continue(next), Terminal or Invalid(reason), the result of a state's Handle.
  - Violation: Structured error classified as InvalidInput, BusinessRule or MissingPrecondition.
  - ActionRequest: A structural representation of what the host should render or ask.
*/
package domain
