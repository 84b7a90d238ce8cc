package mcptools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HerbHall/rigplanner/internal/engine"
	"github.com/HerbHall/rigplanner/internal/testutil"
	"github.com/HerbHall/rigplanner/pkg/catalog"
)

func connect(t *testing.T) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	srv := NewServer(engine.New(catalog.NewCatalog(), engine.Options{Currency: "PHP"}), testutil.Logger(t))
	clientTransport, serverTransport := mcp.NewInMemoryTransports()

	ss, err := srv.MCP().Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ss.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { cs.Close() })
	return cs
}

// call invokes a tool and decodes its structured output into out.
func call(t *testing.T, cs *mcp.ClientSession, name string, args, out any) *mcp.CallToolResult {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	if out != nil && !res.IsError {
		raw, err := json.Marshal(res.StructuredContent)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, out))
	}
	return res
}

func TestListTools(t *testing.T) {
	cs := connect(t)

	res, err := cs.ListTools(context.Background(), nil)
	require.NoError(t, err)

	names := make([]string, 0, len(res.Tools))
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"estimate_power", "check_compatibility", "filter_catalog", "compare_components"}, names)
}

func TestEstimatePower(t *testing.T) {
	cs := connect(t)

	var out PowerOutput
	res := call(t, cs, "estimate_power", map[string]any{
		"part_ids": []string{"cpu-ryzen-5-7600", "mb-b650-tomahawk"},
	}, &out)
	require.False(t, res.IsError)

	// 65 W CPU plus the 45 W motherboard allowance.
	assert.Equal(t, float64(110), out.Watts)
	assert.Equal(t, float64(150), out.RecommendedPSU)
	assert.Len(t, out.Lines, 2)
}

func TestCheckCompatibility(t *testing.T) {
	cs := connect(t)

	var out CompatibilityOutput
	res := call(t, cs, "check_compatibility", map[string]any{
		"part_ids": []string{"cpu-ryzen-5-7600", "mb-b760-ds3h-ddr4"},
	}, &out)
	require.False(t, res.IsError)
	assert.False(t, out.Compatible)
	require.Len(t, out.Warnings, 1)
	assert.Contains(t, out.Warnings[0], "LGA1700")
}

func TestCheckCompatibility_DuplicateSlot(t *testing.T) {
	cs := connect(t)

	res := call(t, cs, "check_compatibility", map[string]any{
		"part_ids": []string{"cpu-ryzen-5-7600", "cpu-ryzen-9-7950x"},
	}, nil)
	assert.True(t, res.IsError)
}

func TestFilterCatalog(t *testing.T) {
	cs := connect(t)

	var out FilterOutput
	res := call(t, cs, "filter_catalog", map[string]any{
		"type":   "cpu",
		"facets": map[string][]string{"Socket": {"LGA1700"}},
	}, &out)
	require.False(t, res.IsError)
	require.Equal(t, 2, out.Count)
	for _, p := range out.Parts {
		assert.Equal(t, "LGA1700", p.Specs["Socket"])
	}

	res = call(t, cs, "filter_catalog", map[string]any{"type": "monitor"}, nil)
	assert.True(t, res.IsError)

	res = call(t, cs, "filter_catalog", map[string]any{
		"type":   "gpu",
		"facets": map[string][]string{"Socket": {"AM5"}},
	}, nil)
	assert.True(t, res.IsError, "unknown facet attribute must be rejected")
}

func TestCompareComponents(t *testing.T) {
	cs := connect(t)

	var out CompareOutput
	res := call(t, cs, "compare_components", map[string]any{
		"ids": []string{"cpu-ryzen-5-7600", "cpu-ryzen-9-7950x"},
	}, &out)
	require.False(t, res.IsError)
	require.NotEmpty(t, out.Rows)
	assert.Equal(t, "Price", out.Rows[0].Key)
	assert.Equal(t, "cpu-ryzen-5-7600", out.Rows[0].Best)
	assert.Equal(t, "cpu-ryzen-9-7950x", out.WinnerID)
	require.Len(t, out.Ranked, 2)
	assert.Equal(t, 1, out.Ranked[0].Rank)

	res = call(t, cs, "compare_components", map[string]any{"ids": []string{"missing"}}, nil)
	assert.True(t, res.IsError)
}
