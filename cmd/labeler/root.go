package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/crastos/labeler/internal/cli"
	"github.com/crastos/labeler/internal/version"
	"github.com/crastos/labeler/pkg/errors"
	"github.com/crastos/labeler/pkg/githubapi"
	"github.com/crastos/labeler/pkg/logging"
)

var (
	verbosity  int
	repoToken  string
	repoSlug   string
	prNumber   int
	configPath string
	syncLabels bool
	truncate   int
	dryRun     bool
)

// NewRootCmd builds the labeler command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "labeler",
		Short: "Label a pull request based on the files it changes",
		Long: `labeler fetches a pull request's changed files and applies labels
according to a YAML configuration of glob rules stored in the repository.
It is stateless: every run recomputes the full label set from scratch.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runLabeler,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.Flags().StringVar(&repoToken, "repo-token", "", "GitHub token (defaults to $GITHUB_TOKEN)")
	rootCmd.Flags().StringVar(&repoSlug, "repo", "", "Repository as owner/name (defaults to $GITHUB_REPOSITORY)")
	rootCmd.Flags().IntVar(&prNumber, "pr", 0, "Pull request number")
	rootCmd.Flags().StringVar(&configPath, "configuration-path", ".github/labeler.yml", "Repository-relative path to the label configuration")
	rootCmd.Flags().BoolVar(&syncLabels, "sync-labels", false, "Remove labels whose rules no longer match")
	rootCmd.Flags().IntVar(&truncate, "truncate", cli.TruncateCeiling, "Maximum number of managed labels per run (ceiling 100)")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Compute and print label changes without applying them")

	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func runLabeler(cmd *cobra.Command, args []string) error {
	opts, err := resolveOptions()
	if err != nil {
		return err
	}

	client := githubapi.NewClient(cmd.Context(), opts.Token)
	result, err := cli.Run(cmd.Context(), client, opts)
	if err != nil {
		return err
	}

	if result.Empty() {
		fmt.Println("Nothing to do.")
		return nil
	}

	verb := "Applied"
	if opts.DryRun {
		verb = "Would apply"
	}
	fmt.Printf("%s label changes to %s:\n", verb, opts.PR)
	for _, label := range result.ToRemove {
		color.Red("  - %s", label)
	}
	for _, label := range result.ToAdd {
		color.Green("  + %s", label)
	}
	return nil
}

// resolveOptions merges flags with the environment the way a CI step
// provides them.
func resolveOptions() (cli.Options, error) {
	token := repoToken
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	if token == "" {
		return cli.Options{}, errors.New(errors.ErrInvalidInput,
			"a repo token is required (--repo-token or $GITHUB_TOKEN)")
	}

	slug := repoSlug
	if slug == "" {
		slug = os.Getenv("GITHUB_REPOSITORY")
	}
	owner, name, ok := strings.Cut(slug, "/")
	if !ok || owner == "" || name == "" {
		return cli.Options{}, errors.Newf(errors.ErrInvalidInput,
			"repository must be owner/name, got %q", slug)
	}

	pr := githubapi.PRContext{Owner: owner, Repo: name, Number: prNumber}
	if err := pr.Validate(); err != nil {
		return cli.Options{}, errors.Wrap(err, errors.ErrInvalidInput,
			"invalid pull request reference")
	}

	return cli.Options{
		Token:      token,
		PR:         pr,
		ConfigPath: configPath,
		SyncLabels: syncLabels,
		Truncate:   truncate,
		DryRun:     dryRun,
	}, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("labeler version %s\n", version.Version)
			fmt.Printf("  commit: %s\n", version.Commit)
			fmt.Printf("  built:  %s\n", version.Date)
		},
	}
}
