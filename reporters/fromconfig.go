package reporters

import (
	lumberjack "gopkg.in/natefinch/lumberjack.v2"

	"tasktree"
	"tasktree/config"
)

// NewStdioFromConfig builds a Stdio reporter from a config.StdioConfig: a
// rotating file sink via lumberjack when File is set, stderr otherwise.
func NewStdioFromConfig(cfg config.StdioConfig) *Stdio {
	opts := FormatOptions{
		Timestamp:    TimestampLocal,
		MaxLevel:     tasktree.ParseLevel(cfg.MaxLogLevel),
		HasMaxLevel:  true,
		LogTaskStart: cfg.LogTaskStart,
	}
	if cfg.File == "" {
		return NewStdio(nil, opts)
	}
	return NewStdio(&lumberjack.Logger{
		Filename: cfg.File,
		MaxSize:  cfg.FileMaxSizeMB,
		MaxAge:   cfg.FileMaxAgeDay,
		Compress: cfg.FileCompress,
	}, opts)
}
