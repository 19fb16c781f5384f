package domain

import (
	"crypto/sha256"
	"fmt"
)

// Link represents an undirected connection between two nodes
type Link struct {
	Name  string
	A     *Node
	APort int
	B     *Node
	BPort int
}

// Endpoints returns the endpoint names in lexical order
func (l *Link) Endpoints() (string, string) {
	a, b := l.A.Name(), l.B.Name()
	if a > b {
		a, b = b, a
	}
	return a, b
}

// Key identifies the link by its unordered endpoint pair
func (l *Link) Key() string {
	return LinkKey(l.A.Name(), l.B.Name())
}

// GenerateID creates a deterministic ID for the link based on endpoints
func (l *Link) GenerateID() string {
	return LinkID(l.A.Name(), l.B.Name())
}

// LinkKey builds the unordered endpoint-pair key for two node names
func LinkKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

// LinkID hashes the endpoint-pair key into a short stable identifier
func LinkID(a, b string) string {
	hash := sha256.Sum256([]byte(LinkKey(a, b)))
	return fmt.Sprintf("%x", hash[:8])
}

// Involves checks if the link touches the named node
func (l *Link) Involves(name string) bool {
	return l.A.Name() == name || l.B.Name() == name
}

// OtherEnd returns the node on the other end of the link
func (l *Link) OtherEnd(name string) *Node {
	if l.A.Name() == name {
		return l.B
	}
	return l.A
}
