package azuremonitor

// Discovery queries used by the metric overviews. Overviews are capped so a
// large subscription cannot turn one tool call into hundreds of requests.

const runningVMsQuery = `
Resources
| where type =~ 'Microsoft.Compute/virtualMachines'
| where properties.extended.instanceView.powerState.code =~ 'PowerState/running'
| project id, name, resourceGroup, location, vmSize = properties.hardwareProfile.vmSize
| limit 10
`

const storageAccountsQuery = `
Resources
| where type =~ 'Microsoft.Storage/storageAccounts'
| project id, name, resourceGroup, location, sku = properties.sku.name
| limit 10
`

const databasesQuery = `
Resources
| where type in~ ('Microsoft.Sql/servers/databases', 'Microsoft.DocumentDB/databaseAccounts')
| project id, name, type, resourceGroup, location
| limit 10
`

const appInsightsComponentsQuery = `
Resources
| where type =~ 'Microsoft.Insights/components'
| project id, name, resourceGroup, location, instrumentationKey = properties.InstrumentationKey
| limit 10
`

const logAnalyticsWorkspacesQuery = `
Resources
| where type =~ 'Microsoft.OperationalInsights/workspaces'
| project id, name, resourceGroup, location, customerId = properties.customerId
| limit 5
`

const defaultLogAnalyticsQuery = `
Perf
| where TimeGenerated > ago(24h)
| where CounterName in ("% Processor Time", "Available MBytes", "Disk Reads/sec", "Disk Writes/sec")
| summarize avg(CounterValue) by Computer, CounterName, bin(TimeGenerated, 1h)
| order by TimeGenerated desc
`
