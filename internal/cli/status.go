package cli

import (
	"fmt"

	"github.com/nerdneilsfield/packtrans/internal/report"
	"github.com/spf13/cobra"
)

// newStatusCommand 创建 status 命令
func newStatusCommand(opts *rootOptions) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "status input_file",
		Short: "显示每个提示词包与分组的翻译覆盖率",
		Long: `在内存中用当前词典合并文档，按提示词包和分组统计精确匹配的字段数。
文档不会被修改。

Examples:
  # 查看覆盖率
  packtrans status packs.json

  # 有未精确匹配的字段时以非零状态退出
  packtrans status --strict packs.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			defer env.close()

			rep, err := env.load(args[0])
			if err != nil {
				return err
			}

			report.NewRenderer(cmd.OutOrStdout(), 0).Status(rep)

			if strict && !rep.Totals.Complete() {
				return fmt.Errorf("%s: %d field(s) are not exact matches",
					args[0], rep.Totals.Translatable()-rep.Totals.Exact)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "存在未精确匹配的字段时返回错误")

	return cmd
}
