package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type LogConfig struct {
	Level    string `mapstructure:"level"`
	Prettify bool   `mapstructure:"prettify"`
}

type RPCBlocksConfig struct {
	BlocksPerRequest int `mapstructure:"blocksPerRequest" validate:"gte=0"`
	BatchDelay       int `mapstructure:"batchDelay" validate:"gte=0"`
}

type RPCTransactionsConfig struct {
	TransactionsPerRequest int `mapstructure:"transactionsPerRequest" validate:"gte=0"`
	BatchDelay             int `mapstructure:"batchDelay" validate:"gte=0"`
}

type RPCConfig struct {
	URL          string                `mapstructure:"url" validate:"omitempty,url"`
	Namespace    string                `mapstructure:"namespace" validate:"omitempty,oneof=hmy eth"`
	Blocks       RPCBlocksConfig       `mapstructure:"blocks"`
	Transactions RPCTransactionsConfig `mapstructure:"transactions"`
}

type FormatterConfig struct {
	ShardID uint32 `mapstructure:"shardId" validate:"lte=1023"`
}

type WatchConfig struct {
	Interval      int    `mapstructure:"interval" validate:"gte=0"`
	BlocksPerPoll int    `mapstructure:"blocksPerPoll" validate:"gte=0"`
	FromBlock     uint64 `mapstructure:"fromBlock"`
	Full          bool   `mapstructure:"full"`
}

type MetricsConfig struct {
	Addr string `mapstructure:"addr" validate:"omitempty,hostname_port"`
}

type Config struct {
	RPC       RPCConfig       `mapstructure:"rpc"`
	Log       LogConfig       `mapstructure:"log"`
	Formatter FormatterConfig `mapstructure:"formatter"`
	Watch     WatchConfig     `mapstructure:"watch"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

var Cfg Config

func LoadConfig(cfgFile string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("error reading config file, %s", err)
		}
	} else {
		viper.SetConfigName("config")
		viper.AddConfigPath("./configs")

		// the config file is optional, flags and env are enough to run
		if err := viper.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return fmt.Errorf("error reading config file, %s", err)
			}
		}
	}

	// sets e.g. RPC_URL to rpc.url
	replacer := strings.NewReplacer(".", "_")
	viper.SetEnvKeyReplacer(replacer)

	viper.AutomaticEnv()

	err := viper.Unmarshal(&Cfg)
	if err != nil {
		return fmt.Errorf("error unmarshalling config: %v", err)
	}

	return Cfg.Validate()
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
