package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/five82/galley/internal/app"
	"github.com/five82/galley/internal/browser"
	"github.com/five82/galley/internal/prefs"
	"github.com/five82/galley/internal/recipes"
)

// ErrRowNotShown reports a --show index outside the printed page.
var ErrRowNotShown = errors.New("row not on this page")

type globalFlags struct {
	configPath string
	prefsPath  string
}

// NewRootCommand builds the galley command tree writing to out and errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:   "galley",
		Short: "Browse a recipe collection from the terminal",
		Long: `galley lists and searches recipes served by a recipe API.

Without a subcommand it opens the interactive browser. The list and search
subcommands print one page as a table and exit.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), g.options(cmd))
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "config file (default ~/.config/galley/config.toml)")
	pf.StringVar(&g.prefsPath, "prefs", "", "prefs file (default ~/.config/galley/prefs.toml)")
	pf.String("api", "", "recipe API base URL, e.g. http://localhost:5678/api")
	pf.Duration("timeout", 0, "per-request timeout")
	pf.String("log-level", "", "log level: debug, info, warn or error")
	pf.String("log-file", "", "log file path")

	root.AddCommand(newListCommand(g), newSearchCommand(g), newLogsCommand(g))
	return root
}

func (g *globalFlags) options(cmd *cobra.Command) app.Options {
	return app.Options{
		ConfigPath: g.configPath,
		PrefsPath:  g.prefsPath,
		Flags:      cmd.Flags(),
	}
}

// Execute runs the command line with ctx and returns the error, if any.
func Execute(ctx context.Context, args []string, out, errOut io.Writer) error {
	root := NewRootCommand(out, errOut)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

type pageFlags struct {
	page  int
	limit int
	show  int
}

func (pf *pageFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&pf.page, "page", 1, "page to print")
	cmd.Flags().IntVar(&pf.limit, "limit", 0, "rows per page (default from config)")
	cmd.Flags().IntVar(&pf.show, "show", 0, "also print the detail of row N (1-based)")
}

func newListCommand(g *globalFlags) *cobra.Command {
	pf := &pageFlags{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print one page of the recipe listing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPage(cmd, g, pf, func(c *browser.Controller) (browser.Request, bool) {
				return c.Load()
			})
		},
	}
	pf.register(cmd)
	return cmd
}

func newSearchCommand(g *globalFlags) *cobra.Command {
	pf := &pageFlags{}
	var f recipes.Filters
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search recipes and print one page of matches",
		Long: `Search sends the given filters to the recipe API and prints one page of
the matches. Paging over the match set happens locally.

Numeric filters are passed through as typed, e.g. --rating ">=4" or
--calories "<=400".`,
		Example: `  galley search --cuisine italian --limit 5
  galley search --title soup --page 2 --show 1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPage(cmd, g, pf, func(c *browser.Controller) (browser.Request, bool) {
				return c.Search(f)
			})
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&f.Title, "title", "", "title contains")
	flags.StringVar(&f.Cuisine, "cuisine", "", "cuisine")
	flags.StringVar(&f.Rating, "rating", "", "rating filter")
	flags.StringVar(&f.TotalTime, "total-time", "", "total time filter in minutes")
	flags.StringVar(&f.Calories, "calories", "", "calories filter")
	pf.register(cmd)
	return cmd
}

func runPage(cmd *cobra.Command, g *globalFlags, pf *pageFlags, event func(*browser.Controller) (browser.Request, bool)) error {
	if pf.page < 1 {
		return fmt.Errorf("invalid --page %d: must be at least 1", pf.page)
	}

	env, err := app.Setup(g.options(cmd))
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	prefsPath := g.prefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	store := env.NewStore(prefs.Load(prefsPath))

	p := newPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr())
	ctrl := browser.New(store, env.Client, p,
		browser.WithLogger(env.Logger.Named("cli")),
		browser.WithLimitOptions(env.Config.PageSizes),
	)

	limit := store.Limit()
	if pf.limit != 0 {
		if !slices.Contains(ctrl.LimitOptions(), pf.limit) {
			return fmt.Errorf("invalid --limit %d: choose one of %v", pf.limit, ctrl.LimitOptions())
		}
		limit = pf.limit
	}

	req, ok := event(ctrl)
	if !ok {
		return nil
	}
	req.Page, req.Limit = pf.page, limit
	if err := ctrl.Do(cmd.Context(), req); err != nil {
		return err
	}

	if pf.show > 0 && !ctrl.OpenRow(pf.show-1) {
		return fmt.Errorf("--show %d: %w", pf.show, ErrRowNotShown)
	}
	return nil
}
