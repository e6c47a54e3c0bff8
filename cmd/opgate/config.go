package main

import (
	"github.com/kbukum/opgate/config"
	"github.com/kbukum/opgate/observability"
	"github.com/kbukum/opgate/server"
	"github.com/kbukum/opgate/version"
)

const serviceName = "opgate"

// AppConfig is the full configuration of the opgate binary.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Dispatcher config.DispatcherConfig `yaml:"dispatcher" mapstructure:"dispatcher"`
	Server     server.Config           `yaml:"server" mapstructure:"server"`
	Telemetry  observability.Config    `yaml:"telemetry" mapstructure:"telemetry"`
}

// defaultConfig seeds the values LoadConfig keeps when the file and the
// environment leave a key unset.
func defaultConfig() *AppConfig {
	return &AppConfig{
		ServiceConfig: config.ServiceConfig{
			Name:    serviceName,
			Version: version.Get().Short(),
		},
		Dispatcher: config.DefaultDispatcherConfig(),
	}
}

func (c *AppConfig) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Dispatcher.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Telemetry.ApplyDefaults()
}

func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Dispatcher.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	return c.Telemetry.Validate()
}
