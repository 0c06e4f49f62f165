// Package azure discovers resources in one Azure subscription through the
// Resource Manager and reports them as azurerm_* native records.
package azure

import (
	"context"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
	"go.uber.org/zap"

	"multicloud-cost/clouds"
	"multicloud-cost/core/mapper"
	"multicloud-cost/core/types"
	"multicloud-cost/internal/errors"
	"multicloud-cost/internal/logging"
)

// ResourceLister lists every resource in a subscription
type ResourceLister interface {
	ListResources(ctx context.Context) ([]*armresources.GenericResourceExpanded, error)
}

type armLister struct {
	client *armresources.Client
}

func (l armLister) ListResources(ctx context.Context) ([]*armresources.GenericResourceExpanded, error) {
	var out []*armresources.GenericResourceExpanded
	pager := l.client.NewListPager(&armresources.ClientListOptions{
		Expand: to.Ptr("provisioningState"),
	})
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, page.Value...)
	}
	return out, nil
}

// Discoverer lists Azure resources
type Discoverer struct {
	subscription string
	lister       ResourceLister
	logger       *zap.Logger
}

// New builds a Resource Manager client. A client secret selects service
// principal authentication; otherwise the default credential chain is used.
func New(_ context.Context, creds clouds.Credentials, logger *zap.Logger) (clouds.Discoverer, error) {
	c := creds.Azure
	if c.SubscriptionID == "" {
		return nil, errors.Config("azure subscription_id is required", nil)
	}

	var (
		cred azcore.TokenCredential
		err  error
	)
	if c.ClientSecret != "" {
		cred, err = azidentity.NewClientSecretCredential(c.TenantID, c.ClientID, c.ClientSecret, nil)
	} else {
		cred, err = azidentity.NewDefaultAzureCredential(nil)
	}
	if err != nil {
		return nil, errors.Config("create azure credential", err)
	}

	client, err := armresources.NewClient(c.SubscriptionID, cred, nil)
	if err != nil {
		return nil, errors.Config("create resources client", err)
	}
	return NewWithLister(c.SubscriptionID, armLister{client: client}, logger), nil
}

// NewWithLister builds a discoverer over an existing lister
func NewWithLister(subscription string, lister ResourceLister, logger *zap.Logger) *Discoverer {
	return &Discoverer{
		subscription: subscription,
		lister:       lister,
		logger:       logging.OrGlobal(logger, "discovery.azure"),
	}
}

// Register adds the Azure discoverer to a registry
func Register(reg *clouds.Registry) error {
	return reg.Register(types.ProviderAzure, New)
}

// Provider returns the cloud provider identifier
func (d *Discoverer) Provider() types.Provider {
	return types.ProviderAzure
}

// Discover lists the subscription's resources
func (d *Discoverer) Discover(ctx context.Context) ([]mapper.NativeRecord, error) {
	resources, err := d.lister.ListResources(ctx)
	if err != nil {
		return nil, errors.Network("list azure resources", err).WithContext("subscription", d.subscription)
	}

	records := make([]mapper.NativeRecord, 0, len(resources))
	for _, r := range resources {
		if r == nil {
			continue
		}
		records = append(records, record(r))
	}
	d.logger.Debug("azure discovery", zap.String("subscription", d.subscription), zap.Int("resources", len(records)))
	return records, nil
}

func record(r *armresources.GenericResourceExpanded) mapper.NativeRecord {
	armType := deref(r.Type)
	nativeType := NativeType(armType, deref(r.Kind))
	id := deref(r.ID)

	attrs := mapper.Attributes{
		"id":                  id,
		"name":                deref(r.Name),
		"location":            deref(r.Location),
		"resource_group_name": resourceGroup(id),
		"tags":                tags(r.Tags),
	}
	if s := deref(r.ProvisioningState); s != "" {
		attrs["provisioning_state"] = strings.ToLower(s)
	}
	if r.SKU != nil {
		skuAttributes(nativeType, r.SKU, attrs)
	}
	if props, ok := r.Properties.(map[string]any); ok {
		propertyAttributes(props, attrs)
	}

	return mapper.NativeRecord{
		Provider:   types.ProviderAzure,
		NativeType: nativeType,
		Address:    id,
		Attributes: attrs,
	}
}

func skuAttributes(nativeType string, sku *armresources.SKU, attrs mapper.Attributes) {
	name := deref(sku.Name)
	switch nativeType {
	case "azurerm_virtual_machine_scale_set":
		attrs["vm_size"] = name
		if sku.Capacity != nil {
			attrs["node_count"] = *sku.Capacity
		}
	case "azurerm_managed_disk":
		attrs["storage_account_type"] = name
	case "azurerm_redis_cache":
		attrs["sku_name"] = name
		if sku.Capacity != nil {
			attrs["capacity"] = *sku.Capacity
		}
	case "azurerm_lb":
		attrs["sku"] = name
	default:
		if name != "" {
			attrs["sku_name"] = name
		}
	}
}

func propertyAttributes(props map[string]any, attrs mapper.Attributes) {
	if v, ok := props["diskSizeGB"]; ok {
		attrs["disk_size_gb"] = v
	}
	if v, ok := props["maxSizeBytes"]; ok {
		if f, ok := types.ToFloat(v); ok {
			attrs["max_size_gb"] = f / (1 << 30)
		}
	}
	if hw, ok := props["hardwareProfile"].(map[string]any); ok {
		if size, ok := hw["vmSize"].(string); ok {
			attrs["vm_size"] = size
		}
	}
	if v, ok := props["zoneRedundant"]; ok {
		attrs["zone_redundant"] = v
	}
}

func resourceGroup(id string) string {
	parts := strings.Split(id, "/")
	for i := 0; i+1 < len(parts); i++ {
		if strings.EqualFold(parts[i], "resourceGroups") {
			return parts[i+1]
		}
	}
	return ""
}

func tags(in map[string]*string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = deref(v)
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
