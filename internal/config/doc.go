// Package config provides centralized configuration for the grades
// pipeline. Values are layered: struct defaults, then an optional YAML
// file, then GRADES_-prefixed environment variables, with the environment
// taking precedence. The Paths type is the single source of truth for
// every file location the pipeline touches.
package config
