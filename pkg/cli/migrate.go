package cli

import (
	"context"

	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/medrec-lab/asclepius/pkg/domain/model"
	"github.com/medrec-lab/asclepius/pkg/utils/logging"
)

func cmdMigrate() *cli.Command {
	var projectID string
	var databaseID string
	var dryRun bool

	return &cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Migrate Firestore indexes",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "firestore-project-id",
				Usage:       "Firestore Project ID (required)",
				Required:    true,
				Sources:     cli.EnvVars("ASCLEPIUS_FIRESTORE_PROJECT_ID"),
				Destination: &projectID,
			},
			&cli.StringFlag{
				Name:        "firestore-database-id",
				Usage:       "Firestore Database ID",
				Value:       "(default)",
				Sources:     cli.EnvVars("ASCLEPIUS_FIRESTORE_DATABASE_ID"),
				Destination: &databaseID,
			},
			&cli.BoolFlag{
				Name:        "dry-run",
				Usage:       "Preview changes without applying",
				Destination: &dryRun,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			logger.Info("Migrate configuration",
				"projectID", projectID,
				"databaseID", databaseID,
				"dryRun", dryRun)

			var opts []fireconf.Option
			if dryRun {
				logger.Info("Dry run mode - previewing changes")
				opts = append(opts, fireconf.WithDryRun(true))
			}

			client, err := fireconf.New(ctx, projectID, databaseID, getIndexConfig(), opts...)
			if err != nil {
				return goerr.Wrap(err, "failed to create fireconf client")
			}

			if err := client.Migrate(ctx); err != nil {
				return goerr.Wrap(err, "failed to apply migrations")
			}

			if !dryRun {
				logger.Info("Migrations applied successfully")
			}
			return nil
		},
	}
}

// getIndexConfig returns the Firestore index configuration. List orders by
// CreatedAt alone, which Firestore serves from its automatic single-field
// index, so the only declared index is the vector index.
func getIndexConfig() *fireconf.Config {
	return &fireconf.Config{
		Collections: []fireconf.Collection{
			{
				Name: "analyses",
				Indexes: []fireconf.Index{
					// Vector search index for FindByEmbedding
					{
						Fields: []fireconf.IndexField{
							{
								Path: "Embedding",
								Vector: &fireconf.VectorConfig{
									Dimension: model.EmbeddingDimension,
								},
							},
						},
					},
				},
			},
		},
	}
}
