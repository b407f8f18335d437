package config

import (
	"fmt"
	"os"

	"github.com/creasty/defaults"
)

type GlobalConfig struct {
	Database Database `mapstructure:",squash"`
	Redis    Redis    `mapstructure:",squash"`
	Server   Server   `mapstructure:",squash"`
	Log      Log      `mapstructure:",squash"`
	Trace    Trace    `mapstructure:",squash"`
	Barcode  Barcode  `mapstructure:",squash"`
	Catalog  Catalog  `mapstructure:",squash"`
	Notify   Notify   `mapstructure:",squash"`
}

var config = &GlobalConfig{}

func init() {
	if err := defaults.Set(config); err != nil {
		fmt.Printf("set default err: %+v", err)
		os.Exit(1)
	}
}

func Global() *GlobalConfig {
	return config
}
