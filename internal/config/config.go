package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// AgentConfig holds the endpoint agent configuration.
type AgentConfig struct {
	Endpoint          string        `mapstructure:"endpoint"`
	WorkspaceID       string        `mapstructure:"workspace_id"`
	SharedKey         string        `mapstructure:"shared_key"`
	Interval          time.Duration `mapstructure:"interval"`
	MaxConcurrency    int           `mapstructure:"max_concurrency"`
	ProbeTimeout      time.Duration `mapstructure:"probe_timeout"`
	FolderTargets     []string      `mapstructure:"folder_targets"`
	FolderSizeTimeout time.Duration `mapstructure:"folder_size_timeout"`
	VendorAgentPath   string        `mapstructure:"vendor_agent_path"`
	Domain            string        `mapstructure:"domain"`
}

// CollectorConfig holds the ingestion service configuration.
type CollectorConfig struct {
	HTTPListen    string        `mapstructure:"http_listen"`
	EnableSwagger bool          `mapstructure:"enable_swagger"`
	DatabasePath  string        `mapstructure:"database"`
	RetentionDays int           `mapstructure:"retention_days"`
	PurgeInterval time.Duration `mapstructure:"purge_interval"`
	SharedKey     string        `mapstructure:"shared_key"`
	ApiSecret     string        `mapstructure:"api_secret"`
}

// LoadAgent reads agent configuration from file and environment.
func LoadAgent(cfgFile string) (*AgentConfig, error) {
	v := newViper(cfgFile, "agent")

	v.SetDefault("interval", "24h")
	v.SetDefault("max_concurrency", 4)
	v.SetDefault("probe_timeout", "15s")
	v.SetDefault("folder_size_timeout", "2m")

	_ = v.ReadInConfig()

	var cfg AgentConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal agent config: %w", err)
	}
	return &cfg, nil
}

// LoadCollector reads collector configuration from file and environment.
func LoadCollector(cfgFile string) (*CollectorConfig, error) {
	v := newViper(cfgFile, "collector")

	v.SetDefault("http_listen", ":9560")
	v.SetDefault("enable_swagger", true)
	v.SetDefault("database", "reports.db")
	v.SetDefault("retention_days", 0)
	v.SetDefault("purge_interval", "24h")

	_ = v.ReadInConfig()

	var cfg CollectorConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal collector config: %w", err)
	}
	return &cfg, nil
}

func newViper(cfgFile, name string) *viper.Viper {
	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(name)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/loganalytics-collector")
	}

	v.SetEnvPrefix("LAC")
	v.AutomaticEnv()
	return v
}
