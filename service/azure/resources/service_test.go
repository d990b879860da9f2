package azureresources

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeARM struct {
	lastMethod   string
	lastEndpoint string
	lastParams   map[string]string
	lastBody     any
	response     json.RawMessage
	err          error
}

func (f *fakeARM) Do(ctx context.Context, method, endpoint string, params map[string]string, body any) (json.RawMessage, error) {
	f.lastMethod = method
	f.lastEndpoint = endpoint
	f.lastParams = params
	f.lastBody = body
	if f.err != nil {
		return nil, f.err
	}
	return f.response, nil
}

func (f *fakeARM) SubscriptionID() string { return "sub-1" }

type fakeGraph struct {
	rows    map[string][]map[string]any
	errs    map[string]error
	queries []string
}

func (f *fakeGraph) Query(ctx context.Context, query string) (json.RawMessage, error) {
	rows, err := f.QueryRows(ctx, query)
	if err != nil {
		return nil, err
	}
	data, _ := json.Marshal(map[string]any{"data": rows})
	return data, nil
}

func (f *fakeGraph) QueryRows(ctx context.Context, query string) ([]map[string]any, error) {
	f.queries = append(f.queries, query)
	if err, ok := f.errs[query]; ok {
		return nil, err
	}
	return f.rows[query], nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGetAllResourcesDefaultsQuery(t *testing.T) {
	graph := &fakeGraph{}
	svc := NewService(&fakeARM{}, graph, testLogger())

	_, err := svc.GetAllResources(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, graph.queries, 1)
	assert.Equal(t, defaultResourcesQuery, graph.queries[0])

	_, err = svc.GetAllResources(context.Background(), "Resources | count")
	require.NoError(t, err)
	assert.Equal(t, "Resources | count", graph.queries[1])
}

func TestGetResourceDetailedInfo(t *testing.T) {
	arm := &fakeARM{response: json.RawMessage(`{}`)}
	svc := NewService(arm, &fakeGraph{}, testLogger())

	_, err := svc.GetResourceDetailedInfo(context.Background(), "/subscriptions/sub-1/resourceGroups/rg/providers/Microsoft.Compute/virtualMachines/vm1")
	require.NoError(t, err)
	assert.Equal(t, "/subscriptions/sub-1/resourceGroups/rg/providers/Microsoft.Compute/virtualMachines/vm1", arm.lastEndpoint)
	assert.NotContains(t, arm.lastParams, "$expand")

	_, err = svc.GetResourceDetailedInfo(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "/subscriptions/sub-1/resources", arm.lastEndpoint)
	assert.Equal(t, "createdTime,changedTime,provisioningState", arm.lastParams["$expand"])
}

func TestGetRBACAssignmentsScopeFilter(t *testing.T) {
	arm := &fakeARM{response: json.RawMessage(`{}`)}
	svc := NewService(arm, &fakeGraph{}, testLogger())

	_, err := svc.GetRBACAssignments(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "/subscriptions/sub-1/providers/Microsoft.Authorization/roleAssignments", arm.lastEndpoint)
	assert.Equal(t, "atScope()", arm.lastParams["$filter"])
}

func TestGetNetworkWatcherTopology(t *testing.T) {
	t.Run("no watchers", func(t *testing.T) {
		svc := NewService(&fakeARM{}, &fakeGraph{}, testLogger())

		_, err := svc.GetNetworkWatcherTopology(context.Background())
		assert.ErrorIs(t, err, ErrNoNetworkWatchers)
	})

	t.Run("first watcher queried", func(t *testing.T) {
		graph := &fakeGraph{rows: map[string][]map[string]any{
			networkWatchersQuery: {
				{"name": "watcher-1", "resourceGroup": "NetworkWatcherRG"},
				{"name": "watcher-2", "resourceGroup": "other-rg"},
			},
		}}
		arm := &fakeARM{response: json.RawMessage(`{"resources": []}`)}
		svc := NewService(arm, graph, testLogger())

		_, err := svc.GetNetworkWatcherTopology(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "POST", arm.lastMethod)
		assert.Equal(t, "/subscriptions/sub-1/resourceGroups/NetworkWatcherRG/providers/Microsoft.Network/networkWatchers/watcher-1/topology", arm.lastEndpoint)
		assert.Equal(t, map[string]string{"targetResourceGroupName": "NetworkWatcherRG"}, arm.lastBody)
	})
}

func TestExportResourcesGraphML(t *testing.T) {
	graph := &fakeGraph{
		rows: map[string][]map[string]any{
			defaultResourcesQuery: {
				{
					"id":             "/vm1",
					"name":           "vm1",
					"type":           "microsoft.compute/virtualmachines",
					"resourceGroup":  "rg-1",
					"location":       "eastus",
					"subscriptionId": "sub-1",
					"tags":           map[string]any{"env": "prod"},
				},
				{"id": "/vm2", "name": "vm2"},
			},
		},
		errs: map[string]error{
			resourceDependenciesQuery: errors.New("graph unavailable"),
		},
	}
	svc := NewService(&fakeARM{}, graph, testLogger())

	export, err := svc.ExportResourcesGraphML(context.Background(), true, true)

	require.NoError(t, err)
	assert.Equal(t, "sub-1", export.SubscriptionID)
	require.Len(t, export.Nodes, 2)
	assert.Equal(t, "vm1", export.Nodes[0].Name)
	assert.Equal(t, "rg-1", export.Nodes[0].ResourceGroup)
	assert.Equal(t, map[string]any{"env": "prod"}, export.Nodes[0].Tags)

	// Dependency query failed, so the flag is cleared; network stayed on.
	assert.True(t, export.IncludeNetwork)
	assert.False(t, export.IncludeDependencies)
	assert.Empty(t, export.Edges)
}

func TestGetComprehensiveArchitecturePartialFailure(t *testing.T) {
	graph := &fakeGraph{
		rows: map[string][]map[string]any{
			virtualMachinesDetailedQuery: {{"name": "vm1"}},
		},
		errs: map[string]error{
			databasesDetailedQuery: errors.New("graph throttled"),
		},
	}
	arm := &fakeARM{err: errors.New("forbidden")}
	svc := NewService(arm, graph, testLogger())

	data, err := svc.GetComprehensiveArchitecture(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "sub-1", data.SubscriptionID)
	assert.NotNil(t, data.VirtualMachines)
	assert.Nil(t, data.Databases)
	// Resource groups go through ARM, which is down in this scenario.
	assert.Nil(t, data.ResourceGroups)

	sources := make([]string, 0, len(data.Errors))
	for _, sectionErr := range data.Errors {
		sources = append(sources, sectionErr.Source)
	}
	assert.Contains(t, sources, "databases")
	assert.Contains(t, sources, "resource_groups")
}
