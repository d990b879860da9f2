package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/elC0mpa/azure-doctor/cmd/mcp/tools"
	azurearm "github.com/elC0mpa/azure-doctor/service/azure/arm"
	azurecostmanagement "github.com/elC0mpa/azure-doctor/service/azure/costmanagement"
	azuregraph "github.com/elC0mpa/azure-doctor/service/azure/graph"
	azuremonitor "github.com/elC0mpa/azure-doctor/service/azure/monitor"
	azureresources "github.com/elC0mpa/azure-doctor/service/azure/resources"
	azuresecurity "github.com/elC0mpa/azure-doctor/service/azure/security"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	cfg := LoadConfig(logger)

	// One service graph for the whole process. The ARM adapter fetches
	// a fresh token for every request.
	arm := azurearm.NewService(cfg.Credentials, logger)
	graph := azuregraph.NewService(arm)
	cost := azurecostmanagement.NewService(arm)
	resources := azureresources.NewService(arm, graph, logger)
	monitor := azuremonitor.NewService(arm, graph, resources, cost, logger)
	security := azuresecurity.NewService(arm, graph, logger)

	s := server.NewMCPServer(
		"azure-doctor-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, true),
		server.WithPromptCapabilities(true),
	)

	tools.RegisterBillingTools(s, cost)
	tools.RegisterResourceTools(s, resources)
	tools.RegisterMonitorTools(s, monitor)
	tools.RegisterSecurityTools(s, security)

	registerResources(s, cost, resources, monitor, security)
	registerPrompts(s)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
