package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/hk/internal/manifest"
	"github.com/raphi011/hk/internal/output"
	"github.com/raphi011/hk/internal/ui"
)

// HookDisplay holds hook info for list output.
type HookDisplay struct {
	ID      string   `json:"id"`
	Name    string   `json:"name,omitempty"`
	Repo    string   `json:"repo"`
	Rev     string   `json:"rev,omitempty"`
	Entry   string   `json:"entry,omitempty"`
	Stages  []string `json:"stages"`
	Files   string   `json:"files,omitempty"`
	Exclude string   `json:"exclude,omitempty"`
}

func newListCmd() *cobra.Command {
	var (
		jsonOutput bool
		stageName  string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List configured hooks",
		Aliases: []string{"ls"},
		GroupID: GroupHooks,
		Args:    cobra.NoArgs,
		Long: `List the hooks configured in the repository manifest.

Shows each hook with its source, stages, and file pattern. Use
--stage to only show hooks that fire at a given stage.`,
		Example: `  hk list                     # List all hooks
  hk list --stage pre-push    # Only pre-push hooks
  hk list --json              # Output as JSON`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			repoRoot, err := requireRepoRoot(ctx)
			if err != nil {
				return err
			}
			mf, err := manifest.Load(repoRoot)
			if err != nil {
				return err
			}

			var stage manifest.Stage
			if stageName != "" {
				stage, err = manifest.ParseStage(stageName)
				if err != nil {
					return err
				}
			}

			var hooks []HookDisplay
			for _, src := range mf.Repos {
				for _, h := range src.Hooks {
					if stage != "" && !h.HasStage(stage) {
						continue
					}
					stages := make([]string, len(h.Stages))
					for i, s := range h.Stages {
						stages[i] = string(s)
					}
					hooks = append(hooks, HookDisplay{
						ID:      h.ID,
						Name:    h.Name,
						Repo:    src.Repo,
						Rev:     src.Rev,
						Entry:   h.Entry,
						Stages:  stages,
						Files:   h.Files,
						Exclude: h.Exclude,
					})
				}
			}

			if jsonOutput {
				return out.JSON(hooks)
			}

			if len(hooks) == 0 {
				out.Println("No hooks configured")
				return nil
			}

			headers := []string{"ID", "REPO", "STAGES", "FILES"}
			var rows [][]string
			for _, h := range hooks {
				repo := h.Repo
				if h.Rev != "" {
					repo += "@" + h.Rev
				}
				files := h.Files
				if files == "" {
					files = "*"
				}
				rows = append(rows, []string{h.ID, repo, strings.Join(h.Stages, ", "), files})
			}
			out.Print(ui.RenderTable(headers, rows))

			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().StringVarP(&stageName, "stage", "s", "", "Only show hooks for this stage")
	cmd.RegisterFlagCompletionFunc("stage", completeStages)

	return cmd
}
