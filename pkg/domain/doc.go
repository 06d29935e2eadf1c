/*
Package domain contains the core domain models of the Workshop engine.

It defines the vocabulary shared by the engine, its adapters and its hosts: the
catalog content (exercises, problems, items and zones), the rules that parameterize
the generic placement engine, the drag envelope, and the read-only Snapshot that
hosts render. This package is kept pure and free of external dependencies like
I/O or persistence, following Hexagonal Architecture principles.

# Key Entities

  - Exercise / Problem: Catalog content. An exercise has one or more problems.
  - Rules: Layout (single slot, multi slot, sequence), verification and answer mode.
  - Placement: An item dropped on a zone, with its verification outcome.
  - Envelope: The typed payload carried by a drag gesture.
  - Snapshot: The projection of a session (pools, progress, explanation).
*/
package domain
