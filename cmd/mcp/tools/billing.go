package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	azurecostmanagement "github.com/elC0mpa/azure-doctor/service/azure/costmanagement"
)

// RegisterBillingTools registers cost and billing tools with the MCP server
func RegisterBillingTools(s *server.MCPServer, cost azurecostmanagement.Service) {
	s.AddTool(
		mcp.NewTool("get_cost_analysis",
			mcp.WithDescription("Get cost analysis for the subscription"),
			mcp.WithString("timeframe", mcp.Description("Time period for analysis (MonthToDate, BillingMonthToDate, TheLastMonth, Custom)")),
			mcp.WithString("granularity", mcp.Description("Granularity of data (Daily, Monthly, None)")),
			mcp.WithString("group_by", mcp.Description("Group results by dimension (e.g., ResourceGroup, ResourceType, ServiceName)")),
			mcp.WithString("start_date", mcp.Description("Start date for Custom timeframe (YYYY-MM-DD)")),
			mcp.WithString("end_date", mcp.Description("End date for Custom timeframe (YYYY-MM-DD)")),
		),
		makeCostAnalysisHandler(cost),
	)

	s.AddTool(
		mcp.NewTool("get_budgets",
			mcp.WithDescription("Get all budgets for the subscription"),
		),
		makeRawHandler("budgets", func(ctx context.Context) (json.RawMessage, error) {
			return cost.GetBudgets(ctx)
		}),
	)

	s.AddTool(
		mcp.NewTool("get_recommendations",
			mcp.WithDescription("Get top 10 cost recommendations for the subscription"),
		),
		makeRawHandler("recommendations", func(ctx context.Context) (json.RawMessage, error) {
			return cost.GetRecommendations(ctx)
		}),
	)

	s.AddTool(
		mcp.NewTool("get_azure_advisor_detailed",
			mcp.WithDescription("Get detailed Azure Advisor recommendations including cost, performance, security, and operational excellence"),
		),
		makeRawHandler("advisor recommendations", func(ctx context.Context) (json.RawMessage, error) {
			return cost.GetAdvisorDetailed(ctx)
		}),
	)

	s.AddTool(
		mcp.NewTool("get_usage_details",
			mcp.WithDescription("Get usage details for the subscription"),
			mcp.WithString("start_date", mcp.Description("Start date (YYYY-MM-DD), defaults to 30 days ago")),
			mcp.WithString("end_date", mcp.Description("End date (YYYY-MM-DD), defaults to today")),
		),
		makeUsageDetailsHandler(cost),
	)

	s.AddTool(
		mcp.NewTool("get_subscription_details",
			mcp.WithDescription("Get details about the current subscription"),
		),
		makeRawHandler("subscription details", func(ctx context.Context) (json.RawMessage, error) {
			return cost.GetSubscriptionDetails(ctx)
		}),
	)

	s.AddTool(
		mcp.NewTool("get_price_sheet",
			mcp.WithDescription("Get the price sheet for the subscription"),
		),
		makeRawHandler("price sheet", func(ctx context.Context) (json.RawMessage, error) {
			return cost.GetPriceSheet(ctx)
		}),
	)
}

func makeCostAnalysisHandler(cost azurecostmanagement.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := azurecostmanagement.CostQuery{
			Timeframe:   request.GetString("timeframe", "MonthToDate"),
			Granularity: request.GetString("granularity", "Daily"),
			GroupBy:     request.GetString("group_by", ""),
			StartDate:   request.GetString("start_date", ""),
			EndDate:     request.GetString("end_date", ""),
		}

		data, err := cost.GetCostAnalysis(ctx, query)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get cost analysis: %v", err)), nil
		}

		return mcp.NewToolResultText(string(data)), nil
	}
}

func makeUsageDetailsHandler(cost azurecostmanagement.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		startDate := request.GetString("start_date", "")
		endDate := request.GetString("end_date", "")

		data, err := cost.GetUsageDetails(ctx, startDate, endDate)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get usage details: %v", err)), nil
		}

		return mcp.NewToolResultText(string(data)), nil
	}
}
