package merge

import "go.uber.org/zap"

// Option 定义合并器选项
type Option func(*mergerOptions)

// mergerOptions 包含合并器选项
type mergerOptions struct {
	logger       *zap.Logger
	keepExisting bool
}

// WithLogger 设置日志记录器
func WithLogger(logger *zap.Logger) Option {
	return func(opts *mergerOptions) {
		if logger != nil {
			opts.logger = logger
		}
	}
}

// WithKeepExisting 设置是否保留文档中已有的目标文本。
// 只在查找表未命中、已有目标文本非空且不同于源文本时生效。
func WithKeepExisting(keep bool) Option {
	return func(opts *mergerOptions) {
		opts.keepExisting = keep
	}
}
