// Package config loads opgate configuration.
//
// Viper reads a YAML file, godotenv loads an optional .env file, and
// prefixed environment variables override both. Values already set on the
// target struct act as defaults.
//
// # Usage
//
//	cfg := Config{Dispatcher: config.DefaultDispatcherConfig()}
//	err := config.LoadConfig("opgate", &cfg, config.WithConfigFile("config.yml"))
//
// OPGATE_DISPATCHER_TAKE_COUNT=5 overrides dispatcher.take_count.
package config
