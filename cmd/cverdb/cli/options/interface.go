package options

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Interface is implemented by all option groups: adding flags to a command and binding
// those flags (plus defaults) to viper keys.
type Interface interface {
	AddFlags(flags *pflag.FlagSet)
	BindFlags(flags *pflag.FlagSet, v *viper.Viper) error
}

func AddAllFlags(flags *pflag.FlagSet, opts ...Interface) {
	for _, o := range opts {
		o.AddFlags(flags)
	}
}

func BindAllFlags(flags *pflag.FlagSet, v *viper.Viper, opts ...Interface) error {
	for _, o := range opts {
		if err := o.BindFlags(flags, v); err != nil {
			return err
		}
	}
	return nil
}

func Bind(v *viper.Viper, key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("unable to bind config key %q: flag not found", key)
	}
	return v.BindPFlag(key, flag)
}
