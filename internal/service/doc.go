// Package service coordinates loading and publication of the network.
//
// NetworkService reads topology and stream records through the loader,
// builds a fresh network.Network for every load and publishes it with an
// atomic pointer swap. Readers (HTTP handlers, CLI commands) always see
// either the previous instance or the completely loaded new one; a loaded
// network is never mutated again.
//
// # Event System
//
// Every load publishes an event on the EventBus: network_loaded with a
// summary of the stream report, or network_load_failed with the error. The
// server forwards these to SSE clients through the hub.
//
// # Persistence
//
// With a repository configured, the snapshot of each published network is
// saved after publication. A failed save is reported but does not roll the
// publication back.
package service
