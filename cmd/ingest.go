package cmd

import (
	"github.com/devflow/devflow/core"
	"github.com/devflow/devflow/internal/contract"
	"github.com/devflow/devflow/internal/ghclient"
	"github.com/spf13/cobra"
)

// ingestCmd pulls GitHub activity into the store.
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Pull GitHub activity into daily aggregates.",
	Long: `Fetch commits, pull requests, closed issues and reviews from GitHub and
store them as one aggregate per civil day in the user's time zone.

Past days that are already stored are kept unless --recompute is set; today is
always rewritten.

Examples:
  # Ingest the last 30 days of two repositories
  DEVFLOW_GITHUB_TOKEN=... devflow ingest --user octocat --repos octo/api,octo/web

  # Rebuild the last 90 days in New York time
  devflow ingest --user octocat --repos octo/api --window 90 --timezone America/New_York --recompute`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		src := ghclient.NewClient(cfg.GitHubToken, cfg.Workers)
		if err := core.ExecuteIngest(rootCtx, cfg, storeManager, src); err != nil {
			contract.LogFatal("Cannot ingest activity", err)
		}
	},
}
