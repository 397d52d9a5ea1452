package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"portfolio/internal/content"
	"portfolio/internal/models"
	"portfolio/internal/repositories"
	"portfolio/internal/services"
	"portfolio/internal/validation"
)

var dryRun bool

var importCmd = &cobra.Command{
	Use:   "import-posts <dir>",
	Short: "Import markdown blog posts with front matter",
	Long: `Reads every *.md file under dir, takes title, slug, excerpt, tags,
cover_image, published and published_at from the front matter and stores the
post through the same validation as POST /api/blog.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db := openDatabase(cmd.Context())
		defer db.Close(context.Background())
		if !repositories.Available(db) {
			return errors.New("a reachable DATABASE_URL is required to import posts")
		}

		repo, err := repositories.NewRepository[models.BlogPost](db)
		if err != nil {
			return err
		}
		posts := services.NewCollectionService[models.BlogPost](repo, cfg.Database.Timeout, log)

		imported, err := importPosts(cmd.Context(), args[0], posts, validation.New(), log, dryRun)
		log.Info("import finished", zap.Int("imported", imported), zap.Bool("dry_run", dryRun))
		return err
	},
}

func init() {
	importCmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate posts without storing them")
	rootCmd.AddCommand(importCmd)
}

// postCreator is the part of the blog collection service the importer uses.
type postCreator interface {
	Create(ctx context.Context, post *models.BlogPost) (string, error)
}

// importPosts stores every markdown post under dir and returns how many were
// stored. Invalid files are logged and skipped; the returned error names how
// many failed.
func importPosts(ctx context.Context, dir string, posts postCreator, v *validation.Validator, logger *zap.Logger, dryRun bool) (int, error) {
	var imported, failed int

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".md") {
			return nil
		}

		post, err := readPost(path, v)
		if err != nil {
			failed++
			logger.Warn("skipping post", zap.String("file", path), zap.Error(err))
			return nil
		}
		if dryRun {
			imported++
			logger.Info("post is valid", zap.String("file", path), zap.String("slug", post.Slug))
			return nil
		}

		id, err := posts.Create(ctx, &post)
		if err != nil {
			return fmt.Errorf("store %s: %w", path, err)
		}
		imported++
		logger.Info("post imported", zap.String("file", path), zap.String("slug", post.Slug), zap.String("id", id))
		return nil
	})
	if err != nil {
		return imported, err
	}
	if failed > 0 {
		return imported, fmt.Errorf("%d post(s) could not be imported", failed)
	}
	return imported, nil
}

func readPost(path string, v *validation.Validator) (models.BlogPost, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.BlogPost{}, err
	}
	defer f.Close()

	payload, err := content.ParsePost(path, f)
	if err != nil {
		return models.BlogPost{}, err
	}
	return validation.Decode[models.BlogPost](v, payload)
}
