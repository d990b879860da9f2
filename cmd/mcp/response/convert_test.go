package response

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elC0mpa/azure-doctor/model"
)

func TestConvertArchitectureDataStubsFailedSections(t *testing.T) {
	data := &model.ArchitectureData{
		SubscriptionID:  "sub-1",
		GeneratedAt:     time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		ResourceGroups:  json.RawMessage(`{"value": []}`),
		VirtualMachines: json.RawMessage(`{"data": []}`),
		Errors: []model.SectionError{
			{Source: "databases", Message: "graph throttled"},
		},
	}

	out := ConvertArchitectureData(data)

	require.NotNil(t, out)
	assert.Equal(t, "sub-1", out.Metadata.SubscriptionID)
	assert.Equal(t, "comprehensive_architecture", out.Metadata.DataScope)
	assert.JSONEq(t, `{"value": []}`, string(out.ResourceGroups))
	assert.JSONEq(t, `{"data": []}`, string(out.Compute.VirtualMachines))
	assert.JSONEq(t, `{"error": "Failed to retrieve databases"}`, string(out.Storage.Databases))
	assert.JSONEq(t, `{"error": "Failed to retrieve network topology"}`, string(out.Networking.Topology))

	require.Len(t, out.Errors, 1)
	assert.True(t, out.Errors[0].Error)
	assert.Equal(t, "databases", out.Errors[0].Source)
}

func TestConvertActivityAnalysis(t *testing.T) {
	analysis := &model.ActivityAnalysis{
		Start:         time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC),
		End:           time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
		HoursAnalyzed: 168,
		ResourceActivity: map[string]*model.ResourceActivity{
			"/vm1": {EventCount: 3, LastActivity: "2026-08-29T10:00:00Z", Operations: []string{"start"}},
		},
		TotalEvents:     3,
		UniqueResources: 1,
		Inactive: []model.InactiveResource{
			{ResourceID: "/vm1", EventCount: 3, LastActivity: "2026-08-29T10:00:00Z"},
		},
	}

	out := ConvertActivityAnalysis(analysis)

	require.NotNil(t, out)
	assert.Equal(t, "2026-08-23T00:00:00Z", out.TimeRange.Start)
	assert.Equal(t, "2026-08-30T00:00:00Z", out.TimeRange.End)
	assert.Equal(t, 168, out.TimeRange.HoursAnalyzed)
	assert.Equal(t, 3, out.Summary.TotalEvents)
	require.Len(t, out.Summary.InactiveResources, 1)
	assert.Equal(t, "/vm1", out.Summary.InactiveResources[0].ResourceID)
}

func TestConvertVMMetricsSummary(t *testing.T) {
	summary := &model.MetricsSummary{
		Timespan: "PT1H",
		Items: []model.ResourceMetrics{
			{ID: "/vm1", Name: "vm1", Metrics: json.RawMessage(`{"value": []}`)},
		},
		Succeeded: 1,
	}

	out := ConvertVMMetricsSummary(summary)

	require.NotNil(t, out)
	assert.Equal(t, "PT1H", out.Timespan)
	require.Len(t, out.VMMetrics, 1)
	assert.Equal(t, "/vm1", out.VMMetrics[0].VMID)
	assert.Equal(t, 1, out.Summary.TotalVMs)

	assert.Nil(t, ConvertVMMetricsSummary(nil))
}

func TestConvertGraphExportWireKeys(t *testing.T) {
	export := &model.GraphExport{
		SubscriptionID: "sub-1",
		GeneratedAt:    time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		IncludeNetwork: true,
		Nodes: []model.GraphNode{
			{ID: "/vm1", Name: "vm1", ResourceGroup: "rg-1", SubscriptionID: "sub-1"},
		},
	}

	out := ConvertGraphExport(export)
	require.NotNil(t, out)
	assert.Equal(t, "GraphML", out.Format)

	data, err := json.Marshal(out.Nodes[0])
	require.NoError(t, err)
	// Node keys stay camelCase for diagram tooling.
	assert.Contains(t, string(data), `"resourceGroup":"rg-1"`)
	assert.Contains(t, string(data), `"subscriptionId":"sub-1"`)
}
