package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/nerdneilsfield/packtrans/internal/config"
	"github.com/nerdneilsfield/packtrans/internal/logger"
	"github.com/nerdneilsfield/packtrans/internal/stats"
	"github.com/spf13/cobra"
)

// newStatsCommand 创建 stats 命令
func newStatsCommand(opts *rootOptions) *cobra.Command {
	var (
		recentLimit int
		resetStats  bool
		assumeYes   bool
	)

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "查看合并运行记录",
		Long: `查看历次合并的统计信息，包括：
- 总体统计
- 语言对统计
- 最近的运行记录

Examples:
  # 显示概览和最近的运行
  packtrans stats

  # 显示最近 20 次运行
  packtrans stats --recent 20

  # 清空运行记录
  packtrans stats --reset`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(opts.cfgFile)
			if err != nil {
				return err
			}
			updateConfigFromFlags(cmd, opts, cfg)

			log, err := logger.New(logger.Options{Debug: cfg.Debug, Verbose: cfg.Verbose, Level: cfg.LogLevel})
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer func() {
				_ = log.Sync()
			}()

			db, err := stats.NewDatabase(cfg.StatsPath, log)
			if err != nil {
				return fmt.Errorf("failed to initialize statistics database: %w", err)
			}

			out := cmd.OutOrStdout()
			if resetStats {
				if !assumeYes && !confirm(cmd, "Are you sure you want to reset all statistics? This cannot be undone. (y/N): ") {
					fmt.Fprintln(out, "Statistics reset cancelled.")
					return nil
				}
				if err := db.Reset(); err != nil {
					return fmt.Errorf("failed to reset statistics: %w", err)
				}
				fmt.Fprintln(out, "✅ Statistics have been reset.")
				return nil
			}

			limit := cfg.RecentLimit
			if cmd.Flags().Changed("recent") {
				limit = recentLimit
			}

			visualizer := stats.NewVisualizer(db, out)
			visualizer.ShowOverview()
			fmt.Fprintln(out)
			visualizer.ShowLanguagePairs()
			fmt.Fprintln(out)
			visualizer.ShowRecentRuns(limit)
			color.New(color.Faint).Fprintf(out, "\nStatistics file: %s\n", db.Path())
			return nil
		},
	}

	statsCmd.Flags().IntVar(&recentLimit, "recent", 10, "显示的最近运行数量")
	statsCmd.Flags().BoolVar(&resetStats, "reset", false, "清空所有运行记录（需要确认）")
	statsCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "跳过确认")

	return statsCmd
}

// confirm 从命令的标准输入读取确认
func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
