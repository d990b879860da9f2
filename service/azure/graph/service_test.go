package azuregraph

import (
	"context"
	"encoding/json"
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
	return f.response, f.err
}

func (f *fakeARM) SubscriptionID() string { return "sub-1" }

func TestQuery(t *testing.T) {
	arm := &fakeARM{response: json.RawMessage(`{"data": []}`)}
	svc := NewService(arm)

	raw, err := svc.Query(context.Background(), "Resources | count")

	require.NoError(t, err)
	assert.JSONEq(t, `{"data": []}`, string(raw))
	assert.Equal(t, "POST", arm.lastMethod)
	assert.Equal(t, "/providers/Microsoft.ResourceGraph/resources", arm.lastEndpoint)
	assert.Equal(t, "2021-03-01", arm.lastParams["api-version"])
	assert.Equal(t, map[string]any{
		"subscriptions": []string{"sub-1"},
		"query":         "Resources | count",
	}, arm.lastBody)
}

func TestRowsObjectArray(t *testing.T) {
	raw := json.RawMessage(`{"data": [{"name": "vm1", "location": "eastus"}, {"name": "vm2"}]}`)

	rows, err := Rows(raw)

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "vm1", rows[0]["name"])
	assert.Equal(t, "eastus", rows[0]["location"])
	assert.Equal(t, "vm2", rows[1]["name"])
}

func TestRowsTable(t *testing.T) {
	raw := json.RawMessage(`{
		"data": {
			"columns": [{"name": "name"}, {"name": "count"}],
			"rows": [["vm1", 3], ["vm2", 1]]
		}
	}`)

	rows, err := Rows(raw)

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "vm1", rows[0]["name"])
	assert.Equal(t, float64(3), rows[0]["count"])
	assert.Equal(t, "vm2", rows[1]["name"])
}

func TestRowsEmptyData(t *testing.T) {
	rows, err := Rows(json.RawMessage(`{}`))

	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRowsInvalid(t *testing.T) {
	_, err := Rows(json.RawMessage(`not json`))
	assert.Error(t, err)
}
