package cli

import (
	"fmt"

	"github.com/nerdneilsfield/packtrans/dictionaries"
	"github.com/nerdneilsfield/packtrans/internal/config"
	"github.com/nerdneilsfield/packtrans/internal/logger"
	"github.com/nerdneilsfield/packtrans/internal/stats"
	"github.com/nerdneilsfield/packtrans/pkg/lookup"
	"github.com/nerdneilsfield/packtrans/pkg/merge"
	"github.com/nerdneilsfield/packtrans/pkg/packdoc"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// environment 是一次命令执行所需的配置、日志、词典和编解码器
type environment struct {
	cfg   *config.Config
	log   *zap.Logger
	dict  *lookup.Dictionary
	codec *packdoc.Codec
}

// setup 加载配置并构建词典。任何错误都发生在读取文档之前。
func setup(cmd *cobra.Command, opts *rootOptions) (*environment, error) {
	cfg, err := config.LoadConfig(opts.cfgFile)
	if err != nil {
		return nil, err
	}
	updateConfigFromFlags(cmd, opts, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.New(logger.Options{Debug: cfg.Debug, Verbose: cfg.Verbose, Level: cfg.LogLevel})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if cfg.ConfigFile != "" {
		log.Debug("config loaded", zap.String("file", cfg.ConfigFile))
	}

	dict, err := buildDictionary(cfg, opts.dicts, log)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}

	codec, err := packdoc.NewCodec(cfg.SourceLang, cfg.TargetLang)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}

	return &environment{cfg: cfg, log: log, dict: dict, codec: codec}, nil
}

// updateConfigFromFlags 用显式指定的命令行标志覆盖配置
func updateConfigFromFlags(cmd *cobra.Command, opts *rootOptions, cfg *config.Config) {
	if cmd.Flags().Changed("source") {
		cfg.SourceLang = opts.sourceLang
	}
	if cmd.Flags().Changed("target") {
		cfg.TargetLang = opts.targetLang
	}
	if cmd.Flags().Changed("no-builtin") {
		cfg.BuiltinDictionaries = !opts.noBuiltin
	}
	if cmd.Flags().Changed("keep-existing") {
		cfg.KeepExisting = opts.keepExisting
	}
	if cmd.Flags().Changed("debug") {
		cfg.Debug = opts.debugMode
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = opts.verboseMode
	}
	if cmd.Flags().Changed("no-stats") && opts.noStats {
		cfg.RecordStats = false
	}
}

// buildDictionary 依次注册内置片段、配置中的片段和命令行片段
func buildDictionary(cfg *config.Config, extra []string, log *zap.Logger) (*lookup.Dictionary, error) {
	var fragments []*lookup.Fragment
	if cfg.BuiltinDictionaries {
		builtin, err := dictionaries.Fragments()
		if err != nil {
			return nil, err
		}
		for _, f := range builtin {
			if err := f.CheckLanguages(cfg.SourceLang, cfg.TargetLang); err != nil {
				return nil, fmt.Errorf("builtin dictionaries do not match, use --no-builtin: %w", err)
			}
		}
		fragments = append(fragments, builtin...)
	}

	paths := append(cfg.DictionaryPaths(), extra...)
	for _, p := range paths {
		f, err := lookup.LoadFragmentFile(p)
		if err != nil {
			return nil, err
		}
		if err := f.CheckLanguages(cfg.SourceLang, cfg.TargetLang); err != nil {
			return nil, err
		}
		fragments = append(fragments, f)
	}

	b := lookup.NewBuilder()
	for _, f := range fragments {
		if err := b.Add(f); err != nil {
			return nil, err
		}
		log.Debug("fragment registered",
			zap.String("fragment", f.ID()),
			zap.String("category", string(f.Category)),
			zap.Int("entries", len(f.Translations)),
			zap.String("origin", f.Origin))
	}
	dict := b.Build()

	for _, o := range dict.Overrides {
		log.Info("dictionary key overridden",
			zap.String("key", o.Key),
			zap.String("previous_fragment", o.PreviousFragment),
			zap.String("fragment", o.Fragment))
	}
	log.Info("dictionary loaded",
		zap.Int("fragments", len(dict.Fragments)),
		zap.Int("keys", dict.Table.Len()),
		zap.Int("placeholders", dict.Placeholders.Len()),
		zap.Int("overrides", len(dict.Overrides)))

	return dict, nil
}

func (e *environment) merger() *merge.Merger {
	return merge.New(e.dict.Table, e.dict.Placeholders,
		merge.WithLogger(e.log),
		merge.WithKeepExisting(e.cfg.KeepExisting))
}

// load 读取文档并在内存中合并，不写任何文件
func (e *environment) load(input string) (*merge.Report, error) {
	doc, err := e.codec.Load(input)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", input, err)
	}
	_, rep := e.merger().Merge(doc)
	return rep, nil
}

func (e *environment) newRunRecord(input string) *stats.RunRecord {
	ids := make([]string, 0, len(e.dict.Fragments))
	for _, f := range e.dict.Fragments {
		ids = append(ids, f.ID)
	}
	return &stats.RunRecord{
		InputFile:      input,
		SourceLanguage: e.cfg.SourceLang,
		TargetLanguage: e.cfg.TargetLang,
		Fragments:      ids,
		Overrides:      len(e.dict.Overrides),
	}
}

// recordRun 保存运行记录，失败只记警告
func (e *environment) recordRun(record *stats.RunRecord) {
	if !e.cfg.RecordStats {
		return
	}
	db, err := stats.NewDatabase(e.cfg.StatsPath, e.log)
	if err != nil {
		e.log.Warn("failed to open statistics database", zap.String("path", e.cfg.StatsPath), zap.Error(err))
		return
	}
	if err := db.AddRunRecord(record); err != nil {
		e.log.Warn("failed to record run", zap.String("path", e.cfg.StatsPath), zap.Error(err))
	}
}

func (e *environment) close() {
	_ = e.log.Sync()
}
