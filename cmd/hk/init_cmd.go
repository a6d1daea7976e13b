package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/raphi011/hk/internal/manifest"
	"github.com/raphi011/hk/internal/output"
)

const sampleManifest = `# Hook manifest. See 'hk validate' and 'hk list'.

# Stages for hooks that don't declare their own.
# default_stages: [pre-commit]

# Drop matching files from every hook's candidate set.
# exclude: "vendor/**"

repos:
  # Hooks defined in this repository.
  - repo: local
    hooks:
      - id: fmt
        name: format code
        entry: gofmt -l
        files: "*.go"

  # Hooks from a remote source, pinned to a tag.
  # - repo: https://github.com/example/hk-hooks
  #   rev: v1.2.0
  #   hooks:
  #     - id: lint
`

func newInitCmd() *cobra.Command {
	var (
		force  bool
		stdout bool
	)

	cmd := &cobra.Command{
		Use:     "init",
		Short:   "Create a starter hook manifest",
		GroupID: GroupSetup,
		Args:    cobra.NoArgs,
		Long: `Create a starter ` + manifest.FileName + ` at the repository root.

The generated manifest contains one example hook and commented
templates for the remaining options. Run 'hk install' afterwards to
wire the hooks into git.`,
		Example: `  hk init        # Create ` + manifest.FileName + `
  hk init -f     # Overwrite an existing manifest
  hk init -s     # Print the manifest to stdout`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			if stdout {
				out.Print(sampleManifest)
				return nil
			}

			repoRoot, err := requireRepoRoot(ctx)
			if err != nil {
				return err
			}
			path := manifest.Path(repoRoot)

			if !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("manifest already exists: %s (use -f to overwrite)", path)
				}
			}

			if err := os.WriteFile(path, []byte(sampleManifest), 0644); err != nil {
				return err
			}
			out.Printf("Created %s\n", path)
			out.Println("Run 'hk install' to activate the hooks")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing manifest")
	cmd.Flags().BoolVarP(&stdout, "stdout", "s", false, "Print manifest to stdout")

	return cmd
}
