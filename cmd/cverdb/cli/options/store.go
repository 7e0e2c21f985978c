package options

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var _ Interface = &Store{}

type Store struct {
	// bound options
	Path string `yaml:"path" json:"path" mapstructure:"path"`

	// unbound options
	// (none)
}

func DefaultStore() Store {
	return Store{
		Path: "./cve.db",
	}
}

func (o *Store) AddFlags(flags *pflag.FlagSet) {
	flags.StringVarP(
		&o.Path,
		"db", "d", o.Path,
		"path to the sqlite database file",
	)
}

func (o *Store) BindFlags(flags *pflag.FlagSet, v *viper.Viper) error {
	// set default values for bound struct items
	if err := Bind(v, "store.path", flags.Lookup("db")); err != nil {
		return err
	}

	// set default values for non-bound struct items
	// (none)

	return nil
}
