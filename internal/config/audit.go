package config

import (
	"github.com/spf13/pflag"
)

// AuditConfig holds configuration for the audit command.
type AuditConfig struct {
	In        string
	PGDSN     string
	BatchSize int
	StateFile string
	LogLevel  string
}

// LoadAudit merges config file, environment variables, and flags into
// AuditConfig.
func LoadAudit(cfgFile string, flags *pflag.FlagSet) (AuditConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"batch-size": 1000,
		"log-level":  "info",
	})
	if err != nil {
		return AuditConfig{}, err
	}

	cfg := AuditConfig{
		In:        v.GetString("in"),
		PGDSN:     v.GetString("pg-dsn"),
		BatchSize: v.GetInt("batch-size"),
		StateFile: v.GetString("state-file"),
		LogLevel:  v.GetString("log-level"),
	}

	return cfg, nil
}
