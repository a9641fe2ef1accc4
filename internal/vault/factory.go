package vault

import (
	"context"
	"fmt"

	"tubetracker/internal/config"
	"tubetracker/internal/tracker"
)

// NewVaultFromConfig creates an Archive implementation based on the archive config type.
func NewVaultFromConfig(ctx context.Context, cfg config.ArchiveConfig) (tracker.Archive, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryVault("memory"), nil
	case "s3":
		return NewS3Vault(ctx, "s3", S3Options{
			Bucket:          cfg.S3Bucket,
			Prefix:          cfg.S3Prefix,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
	case "filesystem":
		if cfg.FSRoot == "" {
			return nil, fmt.Errorf("filesystem vault requires fs_root to be set")
		}
		return NewFileSystemVault("filesystem", cfg.FSRoot)
	default:
		return nil, fmt.Errorf("unknown archive type: %q", cfg.Type)
	}
}
