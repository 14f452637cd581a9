package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/medrec-lab/asclepius/pkg/cli/config"
	"github.com/medrec-lab/asclepius/pkg/service/extract"
	"github.com/medrec-lab/asclepius/pkg/utils/logging"
)

func cmdValidate() *cli.Command {
	var catalogCfg config.Catalog

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate the clinical catalog",
		Flags:   catalogCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			cat, err := catalogCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "catalog validation failed")
			}

			// Compiling the pipeline exercises every lab rule pattern.
			if _, err := extract.New(cat); err != nil {
				return goerr.Wrap(err, "catalog validation failed")
			}

			source := catalogCfg.Path()
			if source == "" {
				source = "(embedded)"
			}

			logger.Info("Catalog validation passed",
				"source", source,
				"categories", len(cat.Categories),
				"lab_rules", len(cat.LabRules),
				"conditions", len(cat.Conditions),
			)
			for _, category := range cat.Categories {
				logger.Info("Category validated",
					"id", category.ID,
					"phrases", len(category.Phrases),
					"responses", len(category.Responses),
				)
			}

			return nil
		},
	}
}
