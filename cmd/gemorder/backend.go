package main

import (
	"context"
	"fmt"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/hupe1980/gemgo/blobstore"
	"github.com/hupe1980/gemgo/blobstore/minio"
	s3store "github.com/hupe1980/gemgo/blobstore/s3"
)

// openBackend connects to the configured blob store.
func openBackend(ctx context.Context, cfg StoreConfig) (blobstore.BlobStore, error) {
	switch cfg.Backend {
	case "memory":
		return blobstore.NewMemoryStore(), nil
	case "local":
		return blobstore.NewLocalStore(cfg.Path), nil
	case "minio":
		st, err := minio.Dial(ctx, *cfg.Minio)
		if err != nil {
			return nil, err
		}
		return st, nil
	case "s3":
		return openS3(ctx, *cfg.S3)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

func openS3(ctx context.Context, cfg S3Config) (blobstore.BlobStore, error) {
	var opts []func(*s3store.Options)
	if cfg.Prefix != "" {
		opts = append(opts, s3store.WithPrefix(cfg.Prefix))
	}
	if cfg.Region != "" {
		opts = append(opts, s3store.WithRegion(cfg.Region))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, s3store.WithEndpoint(cfg.Endpoint))
	}

	st, err := s3store.New(ctx, cfg.Bucket, opts...)
	if err != nil {
		return nil, err
	}
	if cfg.DDBTable == "" {
		return st, nil
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	baseURI := "s3://" + cfg.Bucket
	if p := strings.Trim(cfg.Prefix, "/"); p != "" {
		baseURI += "/" + p
	}
	return s3store.NewDDBCommitStore(st, dynamodb.NewFromConfig(awsCfg), cfg.DDBTable, baseURI), nil
}
