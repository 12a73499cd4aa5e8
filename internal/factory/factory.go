package factory

import (
	"fmt"

	"pupilscreen/internal/config"
	"pupilscreen/internal/detector"
	"pupilscreen/internal/provider"
	"pupilscreen/internal/storage"
)

// ProviderType identifies a detection backend.
type ProviderType string

const (
	// ClassicalProvider is the on-device pipeline
	ClassicalProvider ProviderType = "classical"
	// CloudProvider is the remote segmentation service
	CloudProvider ProviderType = "cloud"
	// FallbackProvider is the manual-placement default
	FallbackProvider ProviderType = "fallback"
)

// StorageType identifies a capture source backend.
type StorageType string

const (
	// HTTPStorage fetches captures over plain HTTP
	HTTPStorage StorageType = "http"
	// AzureStorage reads archived captures from blob storage
	AzureStorage StorageType = "azure"
)

// ProviderFactory creates detection providers from configuration.
type ProviderFactory struct {
	cfg      *config.Config
	detector *detector.Detector
}

// NewProviderFactory creates a provider factory around a shared
// detector instance.
func NewProviderFactory(cfg *config.Config, d *detector.Detector) *ProviderFactory {
	return &ProviderFactory{cfg: cfg, detector: d}
}

// CreateProvider creates a single provider of the given type.
func (f *ProviderFactory) CreateProvider(providerType ProviderType) (provider.Provider, error) {
	switch providerType {
	case ClassicalProvider:
		return provider.NewClassicalProvider(f.detector), nil
	case CloudProvider:
		if !f.cfg.CloudEnabled() {
			return nil, fmt.Errorf("cloud provider requested but no endpoint configured")
		}
		return provider.NewRemoteProvider(f.cfg.CloudEndpoint, f.cfg.CloudTimeout), nil
	case FallbackProvider:
		return provider.NewFallbackProvider(), nil
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}
}

// BuildChain assembles the default chain for this configuration: cloud
// first when configured, then the on-device pipeline, then the manual
// fallback.
func (f *ProviderFactory) BuildChain() *provider.Chain {
	providers := make([]provider.Provider, 0, 3)
	if f.cfg.CloudEnabled() {
		providers = append(providers, provider.NewRemoteProvider(f.cfg.CloudEndpoint, f.cfg.CloudTimeout))
	}
	providers = append(providers,
		provider.NewClassicalProvider(f.detector),
		provider.NewFallbackProvider(),
	)
	return provider.NewChain(providers...)
}

// StorageFactory creates capture source backends.
type StorageFactory struct {
	cfg *config.Config
}

// NewStorageFactory creates a storage factory.
func NewStorageFactory(cfg *config.Config) *StorageFactory {
	return &StorageFactory{cfg: cfg}
}

// CreateFetcher creates the HTTP capture fetcher, bounded by the
// configured fetch timeout.
func (f *StorageFactory) CreateFetcher() storage.CaptureFetcher {
	return storage.NewHTTPCaptureFetcher(f.cfg.FetchTimeout)
}

// CreateArchive creates the blob capture archive, or nil when Azure
// access is not configured.
func (f *StorageFactory) CreateArchive() (storage.BlobStorage, error) {
	if !f.cfg.AzureEnabled() {
		return nil, nil
	}
	return storage.NewAzureStorage(f.cfg.AzureAccountName, f.cfg.AzureAccountKey)
}
