package application

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/anchore/go-logger"
)

type Config struct {
	ConfigPath string    `yaml:"-" json:"-" mapstructure:"-"`
	Log        LogConfig `yaml:"log" json:"log" mapstructure:"log"`
}

type LogConfig struct {
	Quiet        bool         `yaml:"quiet" json:"quiet" mapstructure:"quiet"`
	Verbosity    int          `yaml:"-" json:"-" mapstructure:"-"`
	Level        logger.Level `yaml:"level" json:"level" mapstructure:"level"`
	FileLocation string       `yaml:"file" json:"file" mapstructure:"file"`
}

func (cfg *Config) BindFlags(flags *pflag.FlagSet, v *viper.Viper) error {
	if err := v.BindPFlag("log.quiet", flags.Lookup("quiet")); err != nil {
		return err
	}
	if err := v.BindPFlag("log.verbosity", flags.Lookup("verbose")); err != nil {
		return err
	}
	return nil
}

func (cfg *Config) Load(v *viper.Viper) error {
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to unmarshal application config: %w", err)
	}

	cfg.Log.Verbosity = v.GetInt("log.verbosity")

	if cfg.Log.Level == "" {
		switch {
		case cfg.Log.Verbosity >= 2:
			cfg.Log.Level = logger.TraceLevel
		case cfg.Log.Verbosity == 1:
			cfg.Log.Level = logger.DebugLevel
		default:
			cfg.Log.Level = logger.InfoLevel
		}
	}

	return nil
}

func (cfg Config) String() string {
	contents, err := yaml.Marshal(&cfg)
	if err != nil {
		type plainConfig Config
		return fmt.Sprintf("%+v", plainConfig(cfg))
	}
	return string(contents)
}
