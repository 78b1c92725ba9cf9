package config

import (
	"github.com/maximthomas/legacybridge/pkg/log"
	"github.com/maximthomas/legacybridge/pkg/user"
	"github.com/spf13/viper"
)

type Config struct {
	Server    Server      `yaml:"server"`
	LegacyAPI user.Config `yaml:"legacyApi"`
}

type Server struct {
	Cors Cors
}

type Cors struct {
	AllowedOrigins []string
}

var config Config

func InitConfig() error {
	var configLogger = log.WithField("module", "config")

	err := viper.Unmarshal(&config)
	if err != nil {
		configLogger.Errorf("fatal error reading config file: %s \n", err)
		return err
	}
	err = user.InitUserService(config.LegacyAPI)
	if err != nil {
		configLogger.Errorf("error while init user service: %s \n", err)
		return err
	}

	configLogger.Debugf("got configuration %+v\n", config)

	return nil
}

func GetConfig() Config {
	return config
}

func SetConfig(newConfig Config) {
	config = newConfig
	user.InitUserService(newConfig.LegacyAPI)
}
