// Package config defines the settings shared by alarm-scheduler and
// alarm-ctl and provides helpers to load, validate and save them as YAML.
//
// A Config carries the gRPC address, call timeout, log level, optional
// journal file and the Scheduler section with the engine policies.
package config
