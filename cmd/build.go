package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zhou-zzz/blog/internal/logging"
	"github.com/zhou-zzz/blog/internal/site"
)

func newBuildCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Builds the static site from content, layouts, and static assets",
		Long: `The build command processes Markdown files from the content directory,
extracts frontmatter, applies layouts (including partials), copies static
assets, and generates the site in the configured output directory
(default './public/'). Posts are paginated under /posts/, grouped by year
under /archive/ and by tag under /tags/.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := site.New(a.config, logging.Component(a.logger, "site")).Build(cmd.Context())
			return err
		},
	}
}
