package blob

import (
	"context"
	"fmt"
)

// Config selects and configures a driver. Driver "none" disables archiving.
type Config struct {
	Driver string
	FSRoot string
	S3     S3Config
}

// Open returns nil, nil for the "none" driver.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch Driver(cfg.Driver) {
	case "", "none":
		return nil, nil
	case DriverMemory:
		return NewMemoryStore(), nil
	case DriverFilesystem:
		store, err := NewFSStore(cfg.FSRoot)
		if err != nil {
			return nil, err
		}
		return store, nil
	case DriverS3:
		store, err := NewS3Store(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	return nil, fmt.Errorf("unknown blob driver %q", cfg.Driver)
}
