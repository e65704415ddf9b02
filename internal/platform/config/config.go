package config

import (
	"github.com/kelseyhightower/envconfig"
)

// Config is used to hold all runtime configuration.
type Config struct {
	Market struct {
		OperatorName    string `default:"TokenizedArt" envconfig:"OPERATOR_NAME"`
		OperatorAddress string `envconfig:"OPERATOR_ADDRESS"`
		AdminAddress    string `envconfig:"ADMIN_ADDRESS"`
		TreasuryAddress string `envconfig:"TREASURY_ADDRESS"`
		PlatformFeeBps  uint32 `default:"250" envconfig:"PLATFORM_FEE_BPS"`
		BaseTokenURI    string `default:"https://api.tokenizedart.xyz/metadata/" envconfig:"BASE_TOKEN_URI"`
	}
	Storage struct {
		Bucket string `default:"standalone" envconfig:"STORAGE_BUCKET"`
		Root   string `default:"./tmp" envconfig:"STORAGE_ROOT"`
	}
	Indexer struct {
		DatabasePath string `default:"./tmp/index.db" envconfig:"INDEX_DB_PATH"`
	}
	AWS struct {
		Region          string `default:"ap-southeast-2" envconfig:"AWS_REGION" json:"AWS_REGION"`
		AccessKeyID     string `envconfig:"AWS_ACCESS_KEY_ID" json:"AWS_ACCESS_KEY_ID"`
		SecretAccessKey string `envconfig:"AWS_SECRET_ACCESS_KEY" json:"AWS_SECRET_ACCESS_KEY"`
	}
}

// SafeConfig masks sensitive config values
func SafeConfig(cfg Config) *Config {
	cfgSafe := cfg

	if len(cfgSafe.AWS.AccessKeyID) > 0 {
		cfgSafe.AWS.AccessKeyID = "*** Masked ***"
	}
	if len(cfgSafe.AWS.SecretAccessKey) > 0 {
		cfgSafe.AWS.SecretAccessKey = "*** Masked ***"
	}

	return &cfgSafe
}

// Environment returns configuration sourced from environment variables
func Environment() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("MARKET", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
