package config

import (
	"fmt"
	"time"

	"github.com/kbukum/opgate/catalog"
	"github.com/kbukum/opgate/validation"
)

// PluckRecord is the fixed object the pluck operator projects a key from.
type PluckRecord struct {
	Name string  `yaml:"name" mapstructure:"name" json:"name" validate:"required"`
	Age  float64 `yaml:"age" mapstructure:"age" json:"age"`
}

// DispatcherConfig parameterizes the operator catalog and the engine.
type DispatcherConfig struct {
	// InitialOperator is selected at startup; empty means the first catalog entry.
	InitialOperator string `yaml:"initial_operator" mapstructure:"initial_operator" json:"initial_operator"`
	// QueueSize bounds the scheduler loop's task queue.
	QueueSize int `yaml:"queue_size" mapstructure:"queue_size" json:"queue_size" validate:"gte=1,lte=65536"`

	MapFactor       float64 `yaml:"map_factor" mapstructure:"map_factor" json:"map_factor"`
	FilterThreshold float64 `yaml:"filter_threshold" mapstructure:"filter_threshold" json:"filter_threshold"`

	// ProjectFactor and ProjectDelay drive the inner streams of mergeMap and switchMap.
	ProjectFactor float64       `yaml:"project_factor" mapstructure:"project_factor" json:"project_factor"`
	ProjectDelay  time.Duration `yaml:"project_delay" mapstructure:"project_delay" json:"project_delay" validate:"gte=0"`

	DelayDuration  time.Duration `yaml:"delay_duration" mapstructure:"delay_duration" json:"delay_duration" validate:"gte=0"`
	DebounceWindow time.Duration `yaml:"debounce_window" mapstructure:"debounce_window" json:"debounce_window" validate:"gt=0"`

	TakeCount int `yaml:"take_count" mapstructure:"take_count" json:"take_count" validate:"gte=0"`
	SkipCount int `yaml:"skip_count" mapstructure:"skip_count" json:"skip_count" validate:"gte=0"`

	PluckRecord PluckRecord `yaml:"pluck_record" mapstructure:"pluck_record" json:"pluck_record"`
	PluckKey    string      `yaml:"pluck_key" mapstructure:"pluck_key" json:"pluck_key" validate:"oneof=name age"`

	AuxiliaryValue string        `yaml:"auxiliary_value" mapstructure:"auxiliary_value" json:"auxiliary_value" validate:"required"`
	AuxiliaryDelay time.Duration `yaml:"auxiliary_delay" mapstructure:"auxiliary_delay" json:"auxiliary_delay" validate:"gte=0"`

	TapMessage      string `yaml:"tap_message" mapstructure:"tap_message" json:"tap_message"`
	FinalizeMessage string `yaml:"finalize_message" mapstructure:"finalize_message" json:"finalize_message"`
	CatchMessage    string `yaml:"catch_message" mapstructure:"catch_message" json:"catch_message"`
}

// DefaultDispatcherConfig returns the stock catalog parameters.
func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{
		QueueSize:       1024,
		MapFactor:       5,
		FilterThreshold: 1,
		ProjectFactor:   3,
		ProjectDelay:    time.Second,
		DelayDuration:   2 * time.Second,
		DebounceWindow:  time.Second,
		TakeCount:       3,
		SkipCount:       3,
		PluckRecord:     PluckRecord{Name: "Brian", Age: 29},
		PluckKey:        "age",
		AuxiliaryValue:  "BRLG",
		TapMessage:      "do something not affecting the stream!",
		FinalizeMessage: `think "finally" in try/catches!`,
		CatchMessage:    "simulated error!",
	}
}

// ApplyDefaults fills the fields whose zero value has no useful meaning.
func (c *DispatcherConfig) ApplyDefaults() {
	d := DefaultDispatcherConfig()
	if c.QueueSize == 0 {
		c.QueueSize = d.QueueSize
	}
	if c.MapFactor == 0 {
		c.MapFactor = d.MapFactor
	}
	if c.ProjectFactor == 0 {
		c.ProjectFactor = d.ProjectFactor
	}
	if c.DebounceWindow == 0 {
		c.DebounceWindow = d.DebounceWindow
	}
	if c.PluckRecord.Name == "" {
		c.PluckRecord = d.PluckRecord
	}
	if c.PluckKey == "" {
		c.PluckKey = d.PluckKey
	}
	if c.AuxiliaryValue == "" {
		c.AuxiliaryValue = d.AuxiliaryValue
	}
	if c.TapMessage == "" {
		c.TapMessage = d.TapMessage
	}
	if c.FinalizeMessage == "" {
		c.FinalizeMessage = d.FinalizeMessage
	}
	if c.CatchMessage == "" {
		c.CatchMessage = d.CatchMessage
	}
}

// CatalogParams maps the configuration onto the stock catalog arguments.
func (c *DispatcherConfig) CatalogParams() catalog.Params {
	return catalog.Params{
		MapFactor:       c.MapFactor,
		FilterThreshold: c.FilterThreshold,
		ProjectFactor:   c.ProjectFactor,
		ProjectDelay:    c.ProjectDelay,
		DelayDuration:   c.DelayDuration,
		DebounceWindow:  c.DebounceWindow,
		TakeCount:       c.TakeCount,
		SkipCount:       c.SkipCount,
		PluckRecord:     map[string]any{"name": c.PluckRecord.Name, "age": c.PluckRecord.Age},
		PluckKey:        c.PluckKey,
		AuxiliaryValue:  c.AuxiliaryValue,
		AuxiliaryDelay:  c.AuxiliaryDelay,
		TapMessage:      c.TapMessage,
		FinalizeMessage: c.FinalizeMessage,
		CatchMessage:    c.CatchMessage,
	}
}

// Validate checks the struct tags of the dispatcher configuration.
func (c *DispatcherConfig) Validate() error {
	if err := validation.Validate(c); err != nil {
		return fmt.Errorf("config.dispatcher: %w", err)
	}
	return nil
}
