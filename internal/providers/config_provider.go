package providers

import (
	"fmt"
	"path/filepath"
	"strings"

	"f2g/internal/structures"

	"github.com/spf13/viper"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.SetDefault("converter.strategy", "logid")
	v.SetDefault("converter.productName", "Health Sync")
	v.SetDefault("converter.manufacturer", 255)
	v.SetDefault("converter.product", 1)
	v.SetDefault("converter.serialNumber", 1701)

	v.BindEnv("logger.level", "F2G_LOG_LEVEL")
	v.BindEnv("storage.type", "F2G_STORAGE_TYPE")
	v.BindEnv("limits.dailyLimit", "F2G_DAILY_LIMIT")
	v.BindEnv("cache.enabled", "F2G_CACHE_ENABLED")
	v.BindEnv("converter.strategy", "F2G_TIMESTAMP_STRATEGY")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "Fit2Garmin"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
