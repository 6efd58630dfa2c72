package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Supported sink drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverFile     = "file"
)

// Options selects and configures a sink
type Options struct {
	Driver      string
	SQLitePath  string
	PostgresDSN string
	FilePath    string
}

// Open creates the sink named by opts.Driver
func Open(ctx context.Context, logger *zap.Logger, opts Options) (Sink, error) {
	var (
		sink Sink
		err  error
	)
	switch opts.Driver {
	case DriverSQLite, "":
		sink, err = NewSQLiteSink(logger, opts.SQLitePath)
	case DriverPostgres:
		sink, err = NewPgSink(ctx, logger, opts.PostgresDSN)
	case DriverFile:
		sink, err = NewFileSink(logger, opts.FilePath)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", opts.Driver)
	}
	if err != nil {
		return nil, err
	}
	return sink, nil
}
