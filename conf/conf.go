package conf

import (
	"fmt"
	"time"

	"github.com/quadrantdb/quadrant/errors"
)

const (
	DefaultClientMaxRetries       = 5
	DefaultClientRetryPause       = 3 * time.Second
	DefaultClientOperationTimeout = 60 * time.Second
	DefaultConnectionRetryPause   = 10 * time.Second
	DefaultNumShards              = 16
)

type Config struct {
	NodeID         int    `json:"node_id,omitempty"`
	StorageURL     string `json:"storage_url,omitempty"`
	MetadataPrefix string `json:"metadata_prefix,omitempty"` // Owner tag written on tables created by this deployment
	NumShards      int    `json:"num_shards,omitempty"`

	// Client retry behaviour for table admin operations
	ClientMaxRetries       int           `json:"client_max_retries,omitempty"`
	ClientRetryPause       time.Duration `json:"client_retry_pause,omitempty"`
	ClientOperationTimeout time.Duration `json:"client_operation_timeout,omitempty"`

	// Pause between attempts to (re)open a closed storage connection - retried indefinitely
	ConnectionRetryPause time.Duration `json:"connection_retry_pause,omitempty"`

	EnableMetrics         bool   `json:"enable_metrics,omitempty"`
	MetricsHTTPListenAddr string `json:"metrics_http_listen_addr,omitempty"`

	LifecycleEndpointEnabled bool   `json:"lifecycle_endpoint_enabled,omitempty"`
	LifeCycleListenAddress   string `json:"lifecycle_listen_address,omitempty"`
	StartupEndpointPath      string `json:"startup_endpoint_path,omitempty"`
	ReadyEndpointPath        string `json:"ready_endpoint_path,omitempty"`
	LiveEndpointPath         string `json:"live_endpoint_path,omitempty"`
}

func (c *Config) Validate() error { //nolint:gocyclo
	if c.NodeID < 0 {
		return errors.NewInvalidConfigurationError("NodeID must be >= 0")
	}
	if c.StorageURL == "" {
		return errors.NewInvalidConfigurationError("StorageURL must be specified")
	}
	if c.MetadataPrefix == "" {
		return errors.NewInvalidConfigurationError("MetadataPrefix must be specified")
	}
	if c.NumShards < 1 {
		return errors.NewInvalidConfigurationError("NumShards must be >= 1")
	}
	if c.ClientMaxRetries < 1 {
		return errors.NewInvalidConfigurationError("ClientMaxRetries must be >= 1")
	}
	if c.ClientRetryPause < 100*time.Millisecond {
		return errors.NewInvalidConfigurationError(fmt.Sprintf("ClientRetryPause must be >= %d", 100*time.Millisecond))
	}
	if c.ClientOperationTimeout < 1*time.Second {
		return errors.NewInvalidConfigurationError(fmt.Sprintf("ClientOperationTimeout must be >= %d", time.Second))
	}
	if c.ConnectionRetryPause < 1*time.Second {
		return errors.NewInvalidConfigurationError(fmt.Sprintf("ConnectionRetryPause must be >= %d", time.Second))
	}
	if c.EnableMetrics && c.MetricsHTTPListenAddr == "" {
		return errors.NewInvalidConfigurationError("MetricsHTTPListenAddr must be specified")
	}
	if c.LifecycleEndpointEnabled {
		if c.LifeCycleListenAddress == "" {
			return errors.NewInvalidConfigurationError("LifeCycleListenAddress must be specified")
		}
		if c.StartupEndpointPath == "" || c.ReadyEndpointPath == "" || c.LiveEndpointPath == "" {
			return errors.NewInvalidConfigurationError("StartupEndpointPath, ReadyEndpointPath and LiveEndpointPath must be specified")
		}
	}
	return nil
}

func NewDefaultConfig() *Config {
	return &Config{
		NumShards:              DefaultNumShards,
		ClientMaxRetries:       DefaultClientMaxRetries,
		ClientRetryPause:       DefaultClientRetryPause,
		ClientOperationTimeout: DefaultClientOperationTimeout,
		ConnectionRetryPause:   DefaultConnectionRetryPause,
	}
}
