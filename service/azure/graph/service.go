package azuregraph

import (
	"context"
	"encoding/json"
	"fmt"

	azurearm "github.com/elC0mpa/azure-doctor/service/azure/arm"
)

func NewService(arm azurearm.Service) *service {
	return &service{arm: arm}
}

// Query implements Service
func (s *service) Query(ctx context.Context, query string) (json.RawMessage, error) {
	body := map[string]any{
		"subscriptions": []string{s.arm.SubscriptionID()},
		"query":         query,
	}
	return s.arm.Do(ctx, "POST", "/providers/Microsoft.ResourceGraph/resources",
		map[string]string{"api-version": apiVersion}, body)
}

// QueryRows implements Service
func (s *service) QueryRows(ctx context.Context, query string) ([]map[string]any, error) {
	raw, err := s.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return Rows(raw)
}

// Rows extracts result rows from a Resource Graph response. The API emits two
// shapes depending on resultFormat: "data" as an object array, or "data" as a
// {columns, rows} table. Both are normalized to maps keyed by column name.
func Rows(raw json.RawMessage) ([]map[string]any, error) {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse resource graph response: %w", err)
	}
	if len(envelope.Data) == 0 {
		return nil, nil
	}

	var objects []map[string]any
	if err := json.Unmarshal(envelope.Data, &objects); err == nil {
		return objects, nil
	}

	var table struct {
		Columns []struct {
			Name string `json:"name"`
		} `json:"columns"`
		Rows [][]any `json:"rows"`
	}
	if err := json.Unmarshal(envelope.Data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse resource graph response: %w", err)
	}

	rows := make([]map[string]any, 0, len(table.Rows))
	for _, row := range table.Rows {
		record := make(map[string]any, len(table.Columns))
		for i, col := range table.Columns {
			if i < len(row) {
				record[col.Name] = row[i]
			}
		}
		rows = append(rows, record)
	}
	return rows, nil
}
