package codec

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"tsnview/internal/domain"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot() *domain.Snapshot {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return &domain.Snapshot{
		ID:      "cp1q0v8a0s3d2bq4g6f0",
		TakenAt: at,
		Nodes: []domain.NodeDescription{
			{Name: "E1", Kind: domain.KindEndStation, Port: 1},
			{
				Name: "SW1", Kind: domain.KindSwitch, Port: 4,
				Traffic: []domain.TrafficView{{Stream: "S1", Previous: "E1", Size: 100, Deadline: 500}},
			},
			{
				Name: "E2", Kind: domain.KindEndStation, Port: 1,
				Arrivals: []domain.ArrivalView{{Stream: "S1", Source: "E1", Size: 100, At: at}},
			},
		},
		Links: []domain.LinkView{
			{ID: domain.LinkID("E1", "SW1"), Name: "L1", From: "E1", FromPt: 1, To: "SW1", ToPt: 1},
			{ID: domain.LinkID("SW1", "E2"), Name: "L2", From: "SW1", FromPt: 2, To: "E2", ToPt: 1},
		},
		Streams: []domain.StreamView{
			{Priority: 3, Name: "S1", Type: "ST", Source: "E1", Destination: "E2", Size: 100, Period: 1000, Deadline: 500, Path: []string{"E1", "SW1", "E2"}},
			{Priority: 1, Name: "S2", Type: "BE", Source: "E1", Destination: "E3", Size: 10, Period: 10, Deadline: 10, Path: []string{}},
		},
	}
}

func TestRoundTrip(t *testing.T) {
	for _, format := range []string{"json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			c, err := ForFormat(format)
			require.NoError(t, err)
			assert.Equal(t, format, c.Format())

			want := sampleSnapshot()
			var buf bytes.Buffer
			require.NoError(t, c.Export(want, &buf))

			got, err := c.Parse(&buf)
			require.NoError(t, err)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestJSONShape(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONCodec().Export(sampleSnapshot(), &buf))

	out := buf.String()
	assert.Contains(t, out, `"from_port": 1`)
	assert.Contains(t, out, `"path": []`, "unresolved stream keeps an empty path")
	assert.NotContains(t, out, `"arrivals": null`)
}

func TestYAMLParseFillsLinkIDs(t *testing.T) {
	in := `id: x
links:
  - name: L1
    from: SW1
    from_port: 1
    to: E1
    to_port: 1
streams:
  - name: S1
    source: E1
    destination: E2
`
	snap, err := NewYAMLCodec().Parse(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, snap.Links, 1)
	assert.Equal(t, domain.LinkID("E1", "SW1"), snap.Links[0].ID)
	assert.NotNil(t, snap.Streams[0].Path)
}

func TestParseErrors(t *testing.T) {
	_, err := NewJSONCodec().Parse(strings.NewReader("{nodes"))
	assert.ErrorContains(t, err, "failed to parse JSON")

	_, err = NewYAMLCodec().Parse(strings.NewReader("nodes: [oops"))
	assert.ErrorContains(t, err, "failed to parse YAML")
}

func TestForFormat(t *testing.T) {
	c, err := ForFormat("yml")
	require.NoError(t, err)
	assert.Equal(t, "yaml", c.Format())

	_, err = ForFormat("ansible")
	assert.ErrorContains(t, err, "unknown format")
	assert.Equal(t, []string{"json", "yaml", "yml"}, Formats())
}
