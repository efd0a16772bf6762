package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/galley/internal/config"
	"github.com/five82/galley/internal/logtail"
)

const defaultLogLines = 40

func newLogsCommand(g *globalFlags) *cobra.Command {
	var (
		lines int
		raw   bool
	)
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the end of galley's log file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(g.configPath, cmd.Flags())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			tail, err := logtail.Read(cfg.Log.File, lines)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(tail) == 0 {
				fmt.Fprintf(out, "no log entries in %s\n", cfg.Log.File)
				return nil
			}
			for _, line := range tail {
				if !raw {
					if e, ok := logtail.Parse(line); ok {
						line = logtail.Format(e)
					}
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", defaultLogLines, "number of lines to print (0 for all)")
	cmd.Flags().BoolVar(&raw, "raw", false, "print JSON lines as written")
	return cmd
}
