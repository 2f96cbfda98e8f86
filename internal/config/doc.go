// Package config defines configuration structures for the haven2llava CLI.
//
// Configuration can be provided via:
//   - Command-line flags
//   - Environment variables (HAVEN_ prefix)
//   - YAML configuration file
//
// # Structure
//
//	type Config struct {
//	    DatabaseURL   string
//	    Gateway       string
//	    Output        string
//	    ImageDir      string
//	    Workers       int
//	    BatchSize     int
//	    MinConfidence float64
//	    Progress      bool
//	    Fetch         FetchConfig
//	}
//
//	type FetchConfig struct {
//	    MaxRetries int
//	    BaseDelay  time.Duration
//	    MaxDelay   time.Duration
//	    Jitter     time.Duration
//	    Timeout    time.Duration
//	}
package config
