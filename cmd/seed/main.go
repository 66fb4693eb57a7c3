// Command seed wipes the image stores and loads demo images from a local
// directory tree:
//
//	seed-images/profiles/   -> USER_PROFILE, owners user-001, user-002, ...
//	seed-images/banners/    -> USER_BANNER
//	seed-images/products/   -> PRODUCT, generated product IDs
//
// Intended for development environments only.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/igdevx/image-service/pkg/imageasset"
	"github.com/igdevx/image-service/pkg/imageasset/config"
)

func main() {
	seedDir := flag.String("dir", "seed-images", "directory containing profiles/, banners/ and products/ subdirectories")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(config.WithEnv())
	if err != nil {
		logger.Error("failed to load configuration", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()

	repo, err := cfg.BuildRepository(ctx)
	if err != nil {
		logger.Error("failed to build repository", "err", err)
		os.Exit(1)
	}

	store, err := cfg.BuildBlobStore()
	if err != nil {
		logger.Error("failed to build blob store", "err", err)
		os.Exit(1)
	}

	svc, err := imageasset.New(
		imageasset.WithRepository(repo),
		imageasset.WithBlobStore(store),
		imageasset.WithLogger(logger),
	)
	if err != nil {
		logger.Error("failed to build service", "err", err)
		os.Exit(1)
	}

	logger.Info("starting image seeding", "dir", *seedDir)

	if err := cleanExistingData(ctx, repo, store, logger); err != nil {
		logger.Error("failed to clean existing data", "err", err)
		os.Exit(1)
	}

	total := 0
	total += loadImagesFromFolder(ctx, svc, logger, filepath.Join(*seedDir, "profiles"), imageasset.KindUserProfile)
	total += loadImagesFromFolder(ctx, svc, logger, filepath.Join(*seedDir, "banners"), imageasset.KindUserBanner)
	total += loadImagesFromFolder(ctx, svc, logger, filepath.Join(*seedDir, "products"), imageasset.KindProduct)

	if total == 0 {
		logger.Warn("no seed images found", "dir", *seedDir)
		return
	}

	logger.Info("image seeding completed", "count", total)
}

// cleanExistingData removes every record, tombstones included, along with the
// corresponding blobs. Seeding starts from an empty slate.
func cleanExistingData(ctx context.Context, repo imageasset.Repository, store imageasset.BlobStore, logger *slog.Logger) error {
	images, err := repo.ListAllImages(ctx)
	if err != nil {
		return err
	}
	if len(images) == 0 {
		logger.Info("no existing data to clean")
		return nil
	}

	logger.Info("cleaning existing data", "count", len(images))
	for _, image := range images {
		if err := store.Delete(ctx, image.StorageKey); err != nil {
			logger.Warn("failed to delete blob", "key", image.StorageKey, "err", err)
		}
		if err := repo.HardDeleteImage(ctx, image.ID); err != nil {
			return err
		}
	}

	return nil
}

func loadImagesFromFolder(ctx context.Context, svc imageasset.Service, logger *slog.Logger, folder string, kind imageasset.ImageKind) int {
	entries, err := os.ReadDir(folder)
	if err != nil {
		logger.Warn("folder not readable, skipping", "folder", folder, "err", err)
		return 0
	}

	count := 0
	index := 1
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		contentType, ok := imageContentType(entry.Name())
		if !ok {
			continue
		}

		if err := uploadSeedImage(ctx, svc, folder, entry.Name(), contentType, kind, index); err != nil {
			logger.Error("failed to upload seed image", "file", entry.Name(), "err", err)
			continue
		}

		logger.Info("seed image uploaded", "kind", kind, "file", entry.Name())
		count++
		index++
	}

	return count
}

func uploadSeedImage(ctx context.Context, svc imageasset.Service, folder, name, contentType string, kind imageasset.ImageKind, index int) error {
	file, err := os.Open(filepath.Join(folder, name))
	if err != nil {
		return err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return err
	}

	productID := ""
	if kind == imageasset.KindProduct {
		productID = "product-" + uuid.NewString()[:8]
	}

	_, err = svc.UploadImage(ctx, imageasset.UploadImageRequest{
		Reader:      file,
		FileName:    name,
		ContentType: contentType,
		SizeBytes:   info.Size(),
		Kind:        kind,
		OwnerID:     fmt.Sprintf("user-%03d", index),
		ProductID:   productID,
	})
	return err
}

func imageContentType(name string) (string, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return "image/jpeg", true
	case ".png":
		return "image/png", true
	case ".gif":
		return "image/gif", true
	case ".webp":
		return "image/webp", true
	}
	return "", false
}
