package cli

import (
	"github.com/nerdneilsfield/packtrans/internal/report"
	"github.com/nerdneilsfield/packtrans/pkg/packdoc"
	"github.com/spf13/cobra"
)

// maxSuggestions 是每个字段最多列出的近似键数量
const maxSuggestions = 3

// newCheckCommand 创建 check 命令
func newCheckCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check input_file",
		Short: "列出未精确匹配的字段、近似的词典键和缺少映射的占位符",
		Long: `在内存中合并文档，列出所有未被精确匹配的非空字段。
对每个字段给出编辑距离最近的词典键（由 suggest_distance 限制），
以及源文本里没有映射的方括号占位符。近似键只用于提示，合并时从不使用。`,
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

			var issues []report.Issue
			for _, f := range rep.Filter(packdoc.ConfidencePlaceholder, packdoc.ConfidenceUntranslated, packdoc.ConfidenceRetained) {
				issues = append(issues, report.Issue{
					Field:         f,
					Suggestions:   env.dict.Table.Suggest(f.Source, env.cfg.SuggestDistance, maxSuggestions),
					MissingTokens: env.dict.Placeholders.Missing(f.Source),
				})
			}

			report.NewRenderer(cmd.OutOrStdout(), 0).Check(issues)
			return nil
		},
	}
}
