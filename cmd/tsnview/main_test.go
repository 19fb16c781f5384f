package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tsnview/internal/domain"
	"tsnview/internal/repository/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const topologyCSV = `SWITCH,SW1,4
SWITCH,SW2,4
ENDSTATION,E1,1
ENDSTATION,E2,1
ENDSTATION,E3,1
LINK,L1,E1,1,SW1,1
LINK,L2,SW1,2,SW2,1
LINK,L3,SW2,2,E2,1
`

const streamsCSV = `pcp,name,type,source,destination,size,period,deadline
3,S1,ST,E1,E2,100,1000,500
1,S2,BE,E1,E3,64,2000,900
2,S3,ST,E1,E9,64,2000,900
`

// writeConfig lays out record files and a config file pointing at them
func writeConfig(t *testing.T) (dir, configPath string) {
	t.Helper()
	dir = t.TempDir()
	topo := filepath.Join(dir, "topology.csv")
	streams := filepath.Join(dir, "streams.csv")
	require.NoError(t, os.WriteFile(topo, []byte(topologyCSV), 0644))
	require.NoError(t, os.WriteFile(streams, []byte(streamsCSV), 0644))

	configPath = filepath.Join(dir, "tsnview.yaml")
	cfg := "topology: " + topo + "\nstreams: " + streams + "\nlog:\n  level: error\n" +
		"database:\n  path: " + filepath.Join(dir, "tsnview.db") + "\n"
	require.NoError(t, os.WriteFile(configPath, []byte(cfg), 0644))
	return dir, configPath
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRoutesCommand(t *testing.T) {
	_, cfg := writeConfig(t)

	out, err := run(t, "--config", cfg, "routes")
	require.NoError(t, err)

	assert.Contains(t, out, "E1 -> SW1 -> SW2 -> E2")
	assert.Contains(t, out, "No Path Found")
	assert.Contains(t, out, "5 nodes, 3 links, 2 streams (1 resolved, 1 unresolved)")
	assert.Contains(t, out, `skipped: stream S3: unknown node "E9"`)
}

func TestPathAndTreeCommands(t *testing.T) {
	_, cfg := writeConfig(t)

	out, err := run(t, "--config", cfg, "path", "E2", "E1")
	require.NoError(t, err)
	assert.Equal(t, "E2 -> SW2 -> SW1 -> E1\n", out)

	out, err = run(t, "--config", cfg, "tree", "E1")
	require.NoError(t, err)
	assert.Equal(t, "E1 -> SW1\nSW1 -> SW2\nSW2 -> E2\n", out)

	_, err = run(t, "--config", cfg, "path", "E1", "nope")
	assert.ErrorContains(t, err, "node not found: nope")
}

func TestDescribeCommand(t *testing.T) {
	_, cfg := writeConfig(t)

	out, err := run(t, "--config", cfg, "describe", "SW2")
	require.NoError(t, err)
	assert.Contains(t, out, "SW2 (SWITCH, Port: 4)")
	assert.Contains(t, out, "S1 from SW1: size 100, deadline 500")
	assert.Contains(t, out, "streams: S1")

	out, err = run(t, "--config", cfg, "describe", "E2", "--json")
	require.NoError(t, err)
	var desc domain.NodeDescription
	require.NoError(t, json.Unmarshal([]byte(out), &desc))
	require.Len(t, desc.Arrivals, 1)
	assert.Equal(t, "E1", desc.Arrivals[0].Source)

	_, err = run(t, "--config", cfg, "describe", "SW9")
	assert.ErrorContains(t, err, "node not found")
}

func TestExportCommand(t *testing.T) {
	dir, cfg := writeConfig(t)

	out, err := run(t, "--config", cfg, "export", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "streams:")
	assert.Contains(t, out, "- E1\n")

	snapPath := filepath.Join(dir, "snap.json")
	_, err = run(t, "--config", cfg, "export", "-f", "json", "-o", snapPath)
	require.NoError(t, err)
	data, err := os.ReadFile(snapPath)
	require.NoError(t, err)
	var snap domain.Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	assert.Len(t, snap.Streams, 2)

	topoPath := filepath.Join(dir, "exported.yaml")
	_, err = run(t, "--config", cfg, "export", "--format", "topology", "-o", topoPath)
	require.NoError(t, err)
	out, err = run(t, "--config", cfg, "--topology", topoPath, "routes")
	require.NoError(t, err)
	assert.Contains(t, out, "5 nodes, 3 links, 2 streams")

	_, err = run(t, "--config", cfg, "export", "--format", "sqlite")
	require.NoError(t, err)
	repo, err := sqlite.New(filepath.Join(dir, "tsnview.db"))
	require.NoError(t, err)
	defer repo.Close()
	path, err := repo.StreamPath(context.Background(), "S1")
	require.NoError(t, err)
	assert.Equal(t, []string{"E1", "SW1", "SW2", "E2"}, path)

	_, err = run(t, "--config", cfg, "export", "--format", "xml")
	assert.ErrorContains(t, err, "unknown format")
}

func TestFlagOverrides(t *testing.T) {
	dir, cfg := writeConfig(t)

	// Topology alone drops the configured streams file
	out, err := run(t, "--config", cfg, "--topology", filepath.Join(dir, "topology.csv"), "routes")
	require.NoError(t, err)
	assert.Contains(t, out, "0 streams")

	_, err = run(t, "--config", cfg, "--log-level", "loud", "routes")
	assert.ErrorContains(t, err, "invalid config")

	_, err = run(t, "--config", filepath.Join(dir, "missing.yaml"), "routes")
	assert.Error(t, err)
}

func TestRecordErrorFailsCommand(t *testing.T) {
	dir, cfg := writeConfig(t)
	bad := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("SWITCH,SW1\n"), 0644))

	_, err := run(t, "--config", cfg, "--topology", bad, "routes")
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "record 0"), err.Error())
}
