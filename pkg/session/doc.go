/*
Package session implements the registry of live tutoring sessions used by long-running hosts.

Each session gets a random ID. The Manager forwards every new projection to registered
listeners and, when a store is configured, records it so other processes can inspect
what a learner currently sees. Stored snapshots are display projections; they are never
used to rebuild a session.
*/
package session
