package cli

import (
	"fmt"
	"time"

	"github.com/nerdneilsfield/packtrans/internal/report"
	"github.com/nerdneilsfield/packtrans/internal/stats"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// rootOptions 保存命令行标志，每棵命令树一份
type rootOptions struct {
	cfgFile      string
	sourceLang   string
	targetLang   string
	dicts        []string // 追加在配置文件词典之后
	noBuiltin    bool
	keepExisting bool
	debugMode    bool
	verboseMode  bool // 列出每个字段的结果
	dryRun       bool // 只合并和报告，不写文件
	noStats      bool
}

// NewRootCommand 创建根命令
func NewRootCommand(version, commit, buildDate string) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "packtrans [flags] input_file [output_file]",
		Short: "packtrans 把词典中的译文合并进双语提示词包文档",
		Long: `packtrans 读取双语提示词包 JSON 文档，按词典精确匹配填充目标语言文本。
未命中的字段先做方括号占位符替换，仍无变化时保留源文本。

词典按顺序注册，同一个键以最后注册的片段为准：
  1. 内置词典（可用 --no-builtin 关闭）
  2. 配置文件 dictionaries 中的片段
  3. 命令行 --dict 指定的片段

未指定 output_file 时原地覆盖 input_file。`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildDate),
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			output := input
			if len(args) == 2 {
				output = args[1]
			}
			return runMerge(cmd, opts, input, output)
		},
	}

	addGlobalFlags(rootCmd, opts)
	rootCmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "只合并并报告结果，不写出文件")
	rootCmd.Flags().BoolVar(&opts.noStats, "no-stats", false, "不记录本次运行")

	rootCmd.AddCommand(newStatusCommand(opts))
	rootCmd.AddCommand(newCheckCommand(opts))
	rootCmd.AddCommand(newDictCommand(opts))
	rootCmd.AddCommand(newStatsCommand(opts))

	return rootCmd
}

func addGlobalFlags(rootCmd *cobra.Command, opts *rootOptions) {
	rootCmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "配置文件路径")
	rootCmd.PersistentFlags().StringVar(&opts.sourceLang, "source", "", "源语言键")
	rootCmd.PersistentFlags().StringVar(&opts.targetLang, "target", "", "目标语言键")
	rootCmd.PersistentFlags().StringArrayVar(&opts.dicts, "dict", nil, "额外的词典片段文件，可重复指定")
	rootCmd.PersistentFlags().BoolVar(&opts.noBuiltin, "no-builtin", false, "不注册内置词典")
	rootCmd.PersistentFlags().BoolVar(&opts.keepExisting, "keep-existing", false, "未命中时保留已有译文")
	rootCmd.PersistentFlags().BoolVar(&opts.debugMode, "debug", false, "启用调试模式")
	rootCmd.PersistentFlags().BoolVarP(&opts.verboseMode, "verbose", "v", false, "显示详细日志并列出每个字段")
}

// runMerge 执行合并并写出结果
func runMerge(cmd *cobra.Command, opts *rootOptions, input, output string) (err error) {
	env, err := setup(cmd, opts)
	if err != nil {
		return err
	}
	defer env.close()

	record := env.newRunRecord(input)
	start := time.Now()
	defer func() {
		record.Duration = time.Since(start)
		if err != nil {
			record.Status = stats.StatusFailed
			record.ErrorMessage = err.Error()
		}
		env.recordRun(record)
	}()

	doc, err := env.codec.Load(input)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", input, err)
	}

	merged, rep := env.merger().Merge(doc)
	record.Packs = len(merged.Packs)
	record.Fields = rep.Totals.Total
	record.Exact = rep.Totals.Exact
	record.Placeholder = rep.Totals.Placeholder
	record.Untranslated = rep.Totals.Untranslated
	record.Empty = rep.Totals.Empty
	record.Retained = rep.Totals.Retained

	if opts.dryRun {
		record.Status = stats.StatusDryRun
		env.log.Info("dry run, output not written", zap.String("output", output))
	} else {
		if err := env.codec.Save(merged, output); err != nil {
			return fmt.Errorf("failed to save %s: %w", output, err)
		}
		record.OutputFile = output
		record.Status = stats.StatusCompleted
		env.log.Info("document saved", zap.String("output", output))
	}

	r := report.NewRenderer(cmd.OutOrStdout(), 0)
	if env.cfg.Verbose {
		r.Fields(rep.Fields)
	}
	r.Summary(rep, time.Since(start))
	return nil
}
