package azuresecurity

// Resource Graph queries backing the security analyses.

const keyVaultsQuery = `
Resources
| where type == "microsoft.keyvault/vaults"
| extend vaultUri = properties.vaultUri,
         enabledForDeployment = properties.enabledForDeployment,
         enabledForTemplateDeployment = properties.enabledForTemplateDeployment,
         enabledForDiskEncryption = properties.enabledForDiskEncryption,
         enableSoftDelete = properties.enableSoftDelete,
         softDeleteRetentionInDays = properties.softDeleteRetentionInDays,
         enablePurgeProtection = properties.enablePurgeProtection,
         publicNetworkAccess = properties.publicNetworkAccess,
         networkAcls = properties.networkAcls
| project id, name, resourceGroup, location, subscriptionId,
         vaultUri, enabledForDeployment, enabledForTemplateDeployment,
         enabledForDiskEncryption, enableSoftDelete, softDeleteRetentionInDays,
         enablePurgeProtection, publicNetworkAccess, networkAcls
| limit 1000
`

const nsgRulesQuery = `
Resources
| where type == "microsoft.network/networksecuritygroups"
| extend rules = properties.securityRules
| project id, name, resourceGroup, location, subscriptionId, rules
| limit 500
`

const firewallsQuery = `
Resources
| where type == "microsoft.network/azurefirewalls"
| extend firewallPolicy = properties.firewallPolicy,
         threatIntelMode = properties.threatIntelMode,
         sku = properties.sku
| project id, name, resourceGroup, location, subscriptionId, firewallPolicy, threatIntelMode, sku
| limit 100
`

const publicIPsQuery = `
Resources
| where type == "microsoft.network/publicipaddresses"
| extend ipAddress = properties.ipAddress,
         associatedResource = properties.ipConfiguration.id
| project id, name, resourceGroup, location, subscriptionId, ipAddress, associatedResource
| limit 500
`

const sentinelWorkspacesQuery = `
Resources
| where type =~ 'Microsoft.OperationalInsights/workspaces'
| where properties.features.enableLogAccessUsingOnlyResourcePermissions == true
| project id, name, resourceGroup, location
`

const workspacesQuery = `
Resources
| where type =~ 'Microsoft.OperationalInsights/workspaces'
| project id, name, resourceGroup, location
| limit 5
`
