package network

import (
	"fmt"
	"strconv"
	"strings"

	"tsnview/internal/domain"

	"gonum.org/v1/gonum/graph/simple"
)

// Record tags and field counts
const (
	TagSwitch     = "SWITCH"
	TagEndStation = "ENDSTATION"
	TagLink       = "LINK"

	deviceFields = 3 // kind, name, port
	linkFields   = 6 // LINK, linkName, sourceName, sourcePort, destName, destPort
)

// Build creates a Network from an ordered sequence of SWITCH, ENDSTATION and
// LINK records. Any malformed record fails the whole build with a
// *domain.RecordError and no Network is returned.
func Build(records []Record, opts ...Option) (*Network, error) {
	n := newNetwork(opts...)

	for i, rec := range records {
		if err := n.apply(rec); err != nil {
			return nil, &domain.RecordError{Index: i, Record: rec, Err: err}
		}
	}

	n.logger.Debug("topology built",
		"nodes", len(n.order),
		"links", len(n.links))

	return n, nil
}

func (n *Network) apply(rec Record) error {
	if len(rec) == 0 {
		return domain.ErrWrongArity
	}

	tag := strings.ToUpper(strings.TrimSpace(rec[0]))
	switch tag {
	case TagSwitch, TagEndStation:
		return n.applyDevice(rec)
	case TagLink:
		return n.applyLink(rec)
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnknownKind, rec[0])
	}
}

func (n *Network) applyDevice(rec Record) error {
	if len(rec) != deviceFields {
		return fmt.Errorf("%w: %s wants %d fields, got %d", domain.ErrWrongArity, rec[0], deviceFields, len(rec))
	}

	kind, _ := domain.ParseNodeKind(rec[0])
	name := strings.TrimSpace(rec[1])
	port, err := parsePort(rec[2])
	if err != nil {
		return err
	}

	if existing, ok := n.nodes[name]; ok {
		if existing.Kind() != kind {
			n.logger.Warn("ignoring redeclaration with different kind",
				"node", name, "kind", existing.Kind(), "declared", kind)
		}
		return nil
	}

	n.addNode(name, kind, port)
	return nil
}

func (n *Network) applyLink(rec Record) error {
	if len(rec) != linkFields {
		return fmt.Errorf("%w: LINK wants %d fields, got %d", domain.ErrWrongArity, linkFields, len(rec))
	}

	linkName := strings.TrimSpace(rec[1])
	srcName := strings.TrimSpace(rec[2])
	dstName := strings.TrimSpace(rec[4])

	srcPort, err := parsePort(rec[3])
	if err != nil {
		return err
	}
	dstPort, err := parsePort(rec[5])
	if err != nil {
		return err
	}
	src := n.resolveOrCreate(srcName, srcPort)
	dst := n.resolveOrCreate(dstName, dstPort)

	link := &domain.Link{Name: linkName, A: src, APort: srcPort, B: dst, BPort: dstPort}
	if _, dup := n.linkKeys[link.Key()]; dup {
		return nil
	}
	n.linkKeys[link.Key()] = struct{}{}
	n.links = append(n.links, link)

	// simple graphs reject loops; a loop never shortens a route
	if src == dst {
		n.logger.Debug("link loops back to its own node", "link", linkName, "node", srcName)
		return nil
	}
	n.graph.SetEdge(simple.Edge{F: simple.Node(src.Handle()), T: simple.Node(dst.Handle())})
	return nil
}

// resolveOrCreate returns the named node, creating it with an inferred kind
// when it has not been declared
func (n *Network) resolveOrCreate(name string, port int) *domain.Node {
	if node, ok := n.nodes[name]; ok {
		return node
	}
	kind := domain.InferKind(name, n.switchPrefix)
	n.logger.Debug("creating node referenced by link", "node", name, "kind", kind)
	return n.addNode(name, kind, port)
}

func (n *Network) addNode(name string, kind domain.NodeKind, port int) *domain.Node {
	handle := n.next
	n.next++

	node := domain.NewNode(handle, name, kind, port)
	n.nodes[name] = node
	n.byHandle[handle] = node
	n.order = append(n.order, node)
	n.graph.AddNode(simple.Node(handle))
	return node
}

func parsePort(s string) (int, error) {
	port, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: port %q", domain.ErrBadNumber, s)
	}
	return port, nil
}
