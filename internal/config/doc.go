// Package config provides the configuration of SiteLens: allowed roots,
// scan defaults and logging switches, loaded from flags, the environment
// and an optional YAML file.
package config
