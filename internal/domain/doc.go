// Package domain defines the core domain types for the tsnview network topology system.
//
// This package contains the entities that represent a time-sensitive network
// topology: nodes, links, streams and the per-node traffic bookkeeping that
// results from routing streams.
//
// # Core Types
//
// Node represents a topology participant. A node is either a Switch or an
// EndStation; both share identity fields (handle, name, kind, port) and carry a
// variant-specific payload:
//
//   - a Switch keeps one TrafficRecord per stream (previous hop, size, deadline),
//     overwritten when a stream is routed again
//   - an EndStation keeps an append-only log of ArrivalRecords
//
// Link represents an undirected connection between two nodes.
//
// Stream represents a flow with QoS attributes (priority, size, period,
// deadline) and its resolved Path. NoPath marks a stream whose endpoints are
// disconnected.
//
// # Views
//
// Snapshot, NodeDescription, LinkView and StreamView are presentation-oriented
// copies of the state above, safe to serialize and hand to renderers.
//
// # Errors
//
// RecordError, UnknownNodeError and ValidationError classify load failures.
// A missing route is not an error.
package domain
