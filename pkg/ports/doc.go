/*
Package ports defines the driven ports (interfaces) for the Workshop engine.

These interfaces decouple the engine from external implementations, allowing it
to work with various content sources, audio backends, clocks and snapshot stores.

# Key Interfaces

  - CatalogLoader: Retrieves exercise content (Embedded, File, Loam or Memory).
  - CueSink: Receives audio cues without blocking the engine.
  - Scheduler: Creates cancellable timers used for mismatch reverts.
  - SnapshotStore: Keeps the latest projection of live sessions for inspection.
  - Session: The host-facing API of a running exercise.
*/
package ports
