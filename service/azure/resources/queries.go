package azureresources

// Resource Graph queries. These are fixed configuration, not templates: the
// text is submitted verbatim as the KQL body of a Resource Graph POST.

const defaultResourcesQuery = `
Resources
| project id, name, type, resourceGroup, location, subscriptionId, tags, properties
| limit 1000
`

const networkTopologyQuery = `
Resources
| where type in~ (
    'Microsoft.Network/virtualNetworks',
    'Microsoft.Network/virtualNetworkPeerings',
    'Microsoft.Network/networkSecurityGroups',
    'Microsoft.Network/networkInterfaces',
    'Microsoft.Network/publicIPAddresses',
    'Microsoft.Network/loadBalancers',
    'Microsoft.Network/applicationGateways',
    'Microsoft.Network/virtualNetworkGateways',
    'Microsoft.Network/routeTables'
)
| project id, name, type, resourceGroup, location, properties
`

const computeResourcesQuery = `
Resources
| where type in~ (
    'Microsoft.Compute/virtualMachines',
    'Microsoft.Compute/virtualMachineScaleSets',
    'Microsoft.Web/sites',
    'Microsoft.Web/serverFarms',
    'Microsoft.ContainerInstance/containerGroups',
    'Microsoft.ContainerService/managedClusters',
    'Microsoft.Batch/batchAccounts'
)
| project id, name, type, resourceGroup, location, properties
`

const storageResourcesQuery = `
Resources
| where type in~ (
    'Microsoft.Storage/storageAccounts',
    'Microsoft.Sql/servers',
    'Microsoft.Sql/servers/databases',
    'Microsoft.DocumentDB/databaseAccounts',
    'Microsoft.Cache/Redis',
    'Microsoft.DBforPostgreSQL/servers',
    'Microsoft.DBforMySQL/servers'
)
| project id, name, type, resourceGroup, location, properties
`

const resourceDependenciesQuery = `
Resources
| extend dependencies = properties.dependencies
| project id, name, type, resourceGroup, dependencies, properties
| where isnotempty(dependencies) or isnotempty(properties.networkProfile) or isnotempty(properties.subnets)
`

const resourceHierarchyQuery = `
Resources
| summarize Resources = make_list(pack('name', name, 'type', type, 'id', id, 'location', location, 'tags', tags)) by resourceGroup, subscriptionId
| project subscriptionId, resourceGroup, ResourceCount = array_length(Resources), Resources
| order by resourceGroup asc
`

const networkConnectionsQuery = `
Resources
| where type =~ 'Microsoft.Network/networkInterfaces'
| extend vmId = tostring(properties.virtualMachine.id)
| extend subnetId = tostring(properties.ipConfigurations[0].properties.subnet.id)
| extend privateIP = tostring(properties.ipConfigurations[0].properties.privateIPAddress)
| extend publicIPId = tostring(properties.ipConfigurations[0].properties.publicIPAddress.id)
| project id, name, vmId, subnetId, privateIP, publicIPId, resourceGroup, location
| union (
    Resources
    | where type =~ 'Microsoft.Network/virtualNetworks'
    | extend subnets = properties.subnets
    | mvexpand subnets
    | extend subnetName = tostring(subnets.name)
    | extend subnetId = tostring(subnets.id)
    | extend addressPrefix = tostring(subnets.properties.addressPrefix)
    | project vnetId = id, vnetName = name, subnetId, subnetName, addressPrefix, resourceGroup, location, type = 'subnet'
)
`

const nsgDetailedQuery = `
Resources
| where type =~ 'Microsoft.Network/networkSecurityGroups'
| extend securityRules = properties.securityRules
| extend defaultSecurityRules = properties.defaultSecurityRules
| extend networkInterfaces = properties.networkInterfaces
| extend subnets = properties.subnets
| project id, name, resourceGroup, location, securityRules, defaultSecurityRules, networkInterfaces, subnets
`

const loadBalancersDetailedQuery = `
Resources
| where type =~ 'Microsoft.Network/loadBalancers'
| extend frontendIPConfigurations = properties.frontendIPConfigurations
| extend backendAddressPools = properties.backendAddressPools
| extend loadBalancingRules = properties.loadBalancingRules
| extend probes = properties.probes
| extend inboundNatRules = properties.inboundNatRules
| project id, name, resourceGroup, location, frontendIPConfigurations, backendAddressPools, loadBalancingRules, probes, inboundNatRules
`

const virtualMachinesDetailedQuery = `
Resources
| where type =~ 'Microsoft.Compute/virtualMachines'
| extend vmSize = properties.hardwareProfile.vmSize
| extend osType = properties.storageProfile.osDisk.osType
| extend networkProfile = properties.networkProfile
| extend availabilitySet = properties.availabilitySet
| extend diagnosticsProfile = properties.diagnosticsProfile
| extend powerState = properties.extended.instanceView.powerState.code
| project id, name, resourceGroup, location, vmSize, osType, networkProfile, availabilitySet, diagnosticsProfile, powerState, tags
`

const appServicesDetailedQuery = `
Resources
| where type =~ 'Microsoft.Web/sites'
| extend appKind = kind
| extend serverFarmId = properties.serverFarmId
| extend defaultHostName = properties.defaultHostName
| extend enabledHostNames = properties.enabledHostNames
| extend httpsOnly = properties.httpsOnly
| extend siteConfig = properties.siteConfig
| project id, name, resourceGroup, location, appKind, serverFarmId, defaultHostName, enabledHostNames, httpsOnly, siteConfig, tags
`

const databasesDetailedQuery = `
Resources
| where type in~ (
    'Microsoft.Sql/servers/databases',
    'Microsoft.DocumentDB/databaseAccounts',
    'Microsoft.DBforPostgreSQL/servers',
    'Microsoft.DBforMySQL/servers',
    'Microsoft.Cache/Redis'
)
| extend tier = properties.sku.tier
| extend capacity = properties.sku.capacity
| extend family = properties.sku.family
| extend connectionString = properties.connectionString
| extend firewallRules = properties.firewallRules
| project id, name, type, resourceGroup, location, tier, capacity, family, connectionString, firewallRules, tags
`

const storageAccountsDetailedQuery = `
Resources
| where type =~ 'Microsoft.Storage/storageAccounts'
| extend sku = properties.sku
| extend accessTier = properties.accessTier
| extend supportsHttpsTrafficOnly = properties.supportsHttpsTrafficOnly
| extend allowBlobPublicAccess = properties.allowBlobPublicAccess
| extend minimumTlsVersion = properties.minimumTlsVersion
| extend primaryEndpoints = properties.primaryEndpoints
| extend networkAcls = properties.networkAcls
| project id, name, resourceGroup, location, sku, accessTier, supportsHttpsTrafficOnly, allowBlobPublicAccess, minimumTlsVersion, primaryEndpoints, networkAcls, tags
`

const keyVaultsDetailedQuery = `
Resources
| where type =~ 'Microsoft.KeyVault/vaults'
| extend sku = properties.sku
| extend accessPolicies = properties.accessPolicies
| extend networkAcls = properties.networkAcls
| extend enabledForDeployment = properties.enabledForDeployment
| extend enabledForTemplateDeployment = properties.enabledForTemplateDeployment
| extend enabledForDiskEncryption = properties.enabledForDiskEncryption
| project id, name, resourceGroup, location, sku, accessPolicies, networkAcls, enabledForDeployment, enabledForTemplateDeployment, enabledForDiskEncryption, tags
`

const monitoringDiagnosticsQuery = `
Resources
| where type =~ 'Microsoft.Insights/diagnosticSettings'
| extend targetResourceId = properties.targetResourceId
| extend logs = properties.logs
| extend metrics = properties.metrics
| extend workspaceId = properties.workspaceId
| extend storageAccountId = properties.storageAccountId
| project id, name, targetResourceId, logs, metrics, workspaceId, storageAccountId
`

const dependenciesAdvancedQuery = `
Resources
| extend networkProfile = properties.networkProfile
| extend storageProfile = properties.storageProfile
| extend dependsOn = properties.dependsOn
| extend linkedServices = properties.linkedServices
| extend serverFarmId = properties.serverFarmId
| extend subnetId = tostring(properties.ipConfigurations[0].properties.subnet.id)
| extend loadBalancerId = tostring(properties.loadBalancer.id)
| extend networkSecurityGroupId = tostring(properties.networkSecurityGroup.id)
| extend routeTableId = tostring(properties.routeTable.id)
| where isnotempty(networkProfile) or isnotempty(storageProfile) or isnotempty(dependsOn) or isnotempty(linkedServices) or isnotempty(serverFarmId) or isnotempty(subnetId) or isnotempty(loadBalancerId) or isnotempty(networkSecurityGroupId) or isnotempty(routeTableId)
| project id, name, type, resourceGroup, location, networkProfile, storageProfile, dependsOn, linkedServices, serverFarmId, subnetId, loadBalancerId, networkSecurityGroupId, routeTableId
`

const unusedResourcesQuery = `
Resources
| where type in~ (
    'Microsoft.Compute/virtualMachines',
    'Microsoft.Network/publicIPAddresses',
    'Microsoft.Compute/disks',
    'Microsoft.Network/networkInterfaces',
    'Microsoft.Storage/storageAccounts'
)
| extend resourceDetails = case(
    type =~ 'Microsoft.Compute/virtualMachines',
        pack('powerState', properties.extended.instanceView.powerState.displayStatus, 'vmSize', properties.hardwareProfile.vmSize),
    type =~ 'Microsoft.Network/publicIPAddresses',
        pack('ipConfiguration', properties.ipConfiguration, 'associatedResource', properties.ipConfiguration.id),
    type =~ 'Microsoft.Compute/disks',
        pack('diskState', properties.diskState, 'managedBy', managedBy, 'diskSize', properties.diskSizeGB),
    type =~ 'Microsoft.Network/networkInterfaces',
        pack('virtualMachine', properties.virtualMachine, 'ipConfigurations', properties.ipConfigurations),
    type =~ 'Microsoft.Storage/storageAccounts',
        pack('accessTier', properties.accessTier, 'lastAccessTime', properties.lastAccessTime),
    pack('status', 'unknown')
)
| extend potentiallyUnused = case(
    type =~ 'Microsoft.Compute/virtualMachines' and resourceDetails.powerState contains 'stopped', true,
    type =~ 'Microsoft.Network/publicIPAddresses' and isnull(resourceDetails.ipConfiguration), true,
    type =~ 'Microsoft.Compute/disks' and resourceDetails.diskState =~ 'Unattached', true,
    type =~ 'Microsoft.Network/networkInterfaces' and isnull(resourceDetails.virtualMachine), true,
    false
)
| where potentiallyUnused == true
| project id, name, type, resourceGroup, location, resourceDetails, tags
`

const networkWatchersQuery = `
Resources
| where type =~ 'Microsoft.Network/networkWatchers'
| project id, name, resourceGroup, location
`
