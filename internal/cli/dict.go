package cli

import (
	"github.com/nerdneilsfield/packtrans/internal/report"
	"github.com/spf13/cobra"
)

// newDictCommand 创建 dict 命令
func newDictCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dict",
		Short: "列出已注册的词典片段和被覆盖的键",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			defer env.close()

			report.NewRenderer(cmd.OutOrStdout(), 0).Dictionary(env.dict)
			return nil
		},
	}
}
