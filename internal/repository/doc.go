// Package repository defines snapshot persistence for tsnview.
//
// A snapshot is the read-only view of one loaded network: nodes with their
// traffic or arrival records, links, and streams with their resolved paths.
// The store holds exactly one snapshot; saving replaces the previous one in
// a single transaction so readers never see a half-written network.
//
// The sqlite subpackage provides the implementation, built on the pure-Go
// modernc.org/sqlite driver.
package repository
