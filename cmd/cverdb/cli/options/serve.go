package options

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var _ Interface = &Serve{}

type Serve struct {
	// bound options
	Host string `yaml:"host" json:"host" mapstructure:"host"`
	Port int    `yaml:"port" json:"port" mapstructure:"port"`

	// unbound options
	// (none)
}

func DefaultServe() Serve {
	return Serve{
		Host: "127.0.0.1",
		Port: 5000,
	}
}

func (o *Serve) AddFlags(flags *pflag.FlagSet) {
	flags.StringVarP(
		&o.Host,
		"host", "", o.Host,
		"host interface to listen on",
	)
	flags.IntVarP(
		&o.Port,
		"port", "p", o.Port,
		"port to listen on",
	)
}

func (o *Serve) BindFlags(flags *pflag.FlagSet, v *viper.Viper) error {
	// set default values for bound struct items
	if err := Bind(v, "serve.host", flags.Lookup("host")); err != nil {
		return err
	}
	if err := Bind(v, "serve.port", flags.Lookup("port")); err != nil {
		return err
	}

	// set default values for non-bound struct items
	// (none)

	return nil
}
