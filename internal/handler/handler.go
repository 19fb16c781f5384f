package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"tsnview/internal/codec"
	"tsnview/internal/domain"
	"tsnview/internal/network"
	"tsnview/internal/service"
)

// NetworkSource provides the currently published network
type NetworkSource interface {
	Network() (*network.Network, error)
}

// NetworkHandler handles read-only query API requests
type NetworkHandler struct {
	src    NetworkSource
	logger *slog.Logger
}

// NewNetworkHandler creates a new network handler
func NewNetworkHandler(src NetworkSource, logger *slog.Logger) *NetworkHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &NetworkHandler{src: src, logger: logger}
}

// Register mounts the query routes on mux
func (h *NetworkHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/nodes", h.ListNodes)
	mux.HandleFunc("GET /api/nodes/{name}", h.GetNode)
	mux.HandleFunc("GET /api/nodes/{name}/streams", h.GetNodeStreams)
	mux.HandleFunc("GET /api/links", h.ListLinks)
	mux.HandleFunc("GET /api/streams", h.ListStreams)
	mux.HandleFunc("GET /api/streams/{name}", h.GetStream)
	mux.HandleFunc("GET /api/streams/{name}/path", h.GetStreamPath)
	mux.HandleFunc("GET /api/route", h.GetRoute)
	mux.HandleFunc("GET /api/tree", h.GetTree)
	mux.HandleFunc("GET /api/snapshot", h.GetSnapshot)
}

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// NodeSummary is one entry of the node listing
type NodeSummary struct {
	Name string          `json:"name"`
	Kind domain.NodeKind `json:"kind"`
	Port int             `json:"port"`
}

// PathResponse describes a stream path or an ad-hoc route
type PathResponse struct {
	Stream  string   `json:"stream,omitempty"`
	From    string   `json:"from"`
	To      string   `json:"to"`
	Found   bool     `json:"found"`
	Hops    int      `json:"hops"`
	Path    []string `json:"path"`
	Display string   `json:"display"`
}

// NodeStreamsResponse lists the streams crossing a node
type NodeStreamsResponse struct {
	Node    string   `json:"node"`
	Streams []string `json:"streams"`
}

// TreeResponse is a breadth-first spanning tree
type TreeResponse struct {
	Root  string             `json:"root"`
	Edges []network.TreeEdge `json:"edges"`
}

// ListNodes returns all nodes in creation order
func (h *NetworkHandler) ListNodes(w http.ResponseWriter, r *http.Request) {
	n, ok := h.network(w)
	if !ok {
		return
	}

	nodes := make([]NodeSummary, 0, n.NodeCount())
	for _, node := range n.Nodes() {
		nodes = append(nodes, NodeSummary{Name: node.Name(), Kind: node.Kind(), Port: node.Port()})
	}
	h.writeJSON(w, nodes, http.StatusOK)
}

// GetNode returns the traffic or arrival snapshot of a node
func (h *NetworkHandler) GetNode(w http.ResponseWriter, r *http.Request) {
	n, ok := h.network(w)
	if !ok {
		return
	}

	name := r.PathValue("name")
	node, found := n.Node(name)
	if !found {
		h.writeError(w, "Not found", "node "+name+" not found", http.StatusNotFound)
		return
	}
	h.writeJSON(w, n.DescribeNode(node), http.StatusOK)
}

// GetNodeStreams returns the streams whose path contains the node
func (h *NetworkHandler) GetNodeStreams(w http.ResponseWriter, r *http.Request) {
	n, ok := h.network(w)
	if !ok {
		return
	}

	name := r.PathValue("name")
	if _, found := n.Node(name); !found {
		h.writeError(w, "Not found", "node "+name+" not found", http.StatusNotFound)
		return
	}

	streams := n.StreamsThroughNode(name)
	if streams == nil {
		streams = []string{}
	}
	h.writeJSON(w, NodeStreamsResponse{Node: name, Streams: streams}, http.StatusOK)
}

// ListLinks returns all links
func (h *NetworkHandler) ListLinks(w http.ResponseWriter, r *http.Request) {
	n, ok := h.network(w)
	if !ok {
		return
	}

	links := make([]domain.LinkView, 0, n.LinkCount())
	for _, l := range n.Links() {
		links = append(links, domain.ViewLink(l))
	}
	h.writeJSON(w, links, http.StatusOK)
}

// ListStreams returns all registered streams with their paths
func (h *NetworkHandler) ListStreams(w http.ResponseWriter, r *http.Request) {
	n, ok := h.network(w)
	if !ok {
		return
	}

	streams := make([]domain.StreamView, 0, n.StreamCount())
	for _, s := range n.Streams() {
		streams = append(streams, domain.ViewStream(s))
	}
	h.writeJSON(w, streams, http.StatusOK)
}

// GetStream returns a single stream
func (h *NetworkHandler) GetStream(w http.ResponseWriter, r *http.Request) {
	n, ok := h.network(w)
	if !ok {
		return
	}

	name := r.PathValue("name")
	s, found := n.Stream(name)
	if !found {
		h.writeError(w, "Not found", "stream "+name+" not found", http.StatusNotFound)
		return
	}
	h.writeJSON(w, domain.ViewStream(s), http.StatusOK)
}

// GetStreamPath returns the resolved path of a stream
func (h *NetworkHandler) GetStreamPath(w http.ResponseWriter, r *http.Request) {
	n, ok := h.network(w)
	if !ok {
		return
	}

	name := r.PathValue("name")
	s, found := n.Stream(name)
	if !found {
		h.writeError(w, "Not found", "stream "+name+" not found", http.StatusNotFound)
		return
	}

	resp := pathResponse(n.Path(name), s.Source.Name(), s.Destination.Name())
	resp.Stream = name
	h.writeJSON(w, resp, http.StatusOK)
}

// GetRoute computes an ad-hoc fewest-hop route between two nodes
func (h *NetworkHandler) GetRoute(w http.ResponseWriter, r *http.Request) {
	n, ok := h.network(w)
	if !ok {
		return
	}

	from := strings.TrimSpace(r.URL.Query().Get("from"))
	to := strings.TrimSpace(r.URL.Query().Get("to"))
	if from == "" || to == "" {
		h.writeError(w, "Invalid request", "from and to are required", http.StatusBadRequest)
		return
	}

	p, err := n.ShortestPath(from, to)
	if err != nil {
		h.writeLookupError(w, err)
		return
	}
	h.writeJSON(w, pathResponse(p, from, to), http.StatusOK)
}

// GetTree returns the breadth-first spanning tree rooted at a node
func (h *NetworkHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	n, ok := h.network(w)
	if !ok {
		return
	}

	root := strings.TrimSpace(r.URL.Query().Get("root"))
	if root == "" {
		h.writeError(w, "Invalid request", "root is required", http.StatusBadRequest)
		return
	}

	edges, err := n.SpanningTree(root)
	if err != nil {
		h.writeLookupError(w, err)
		return
	}
	if edges == nil {
		edges = []network.TreeEdge{}
	}
	h.writeJSON(w, TreeResponse{Root: root, Edges: edges}, http.StatusOK)
}

// GetSnapshot exports the whole network, as JSON unless ?format= names
// another codec
func (h *NetworkHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	n, ok := h.network(w)
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	c, err := codec.ForFormat(format)
	if err != nil {
		h.writeError(w, "Invalid request", err.Error(), http.StatusBadRequest)
		return
	}

	switch c.Format() {
	case "yaml":
		w.Header().Set("Content-Type", "application/yaml")
	default:
		w.Header().Set("Content-Type", "application/json")
	}
	if err := c.Export(n.Snapshot(), w); err != nil {
		h.logger.Error("failed to export snapshot", "format", format, "error", err)
	}
}

func pathResponse(p domain.Path, from, to string) PathResponse {
	resp := PathResponse{
		From:    from,
		To:      to,
		Found:   p.Found(),
		Path:    p.Names(),
		Display: p.String(),
	}
	if resp.Found {
		resp.Hops = len(p) - 1
	}
	return resp
}

// network fetches the published network, replying 503 before the first load
func (h *NetworkHandler) network(w http.ResponseWriter) (*network.Network, bool) {
	n, err := h.src.Network()
	if err != nil {
		if errors.Is(err, service.ErrNotLoaded) {
			h.writeError(w, "Service unavailable", err.Error(), http.StatusServiceUnavailable)
		} else {
			h.logger.Error("failed to get network", "error", err)
			h.writeError(w, "Failed to get network", err.Error(), http.StatusInternalServerError)
		}
		return nil, false
	}
	return n, true
}

func (h *NetworkHandler) writeLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, network.ErrNodeNotFound) {
		h.writeError(w, "Not found", err.Error(), http.StatusNotFound)
		return
	}
	h.writeError(w, "Query failed", err.Error(), http.StatusInternalServerError)
}

func (h *NetworkHandler) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON", "error", err)
	}
}

func (h *NetworkHandler) writeError(w http.ResponseWriter, error, details string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   error,
		Details: details,
	}); err != nil {
		h.logger.Error("failed to encode error response", "error", err)
	}
}
