package stats

import (
	"time"
)

// Status 是一次运行的结果
const (
	StatusCompleted = "completed"
	StatusDryRun    = "dry-run"
	StatusFailed    = "failed"
)

// HistoryDB 运行记录数据库结构
type HistoryDB struct {
	Version     string    `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	LastUpdated time.Time `json:"last_updated"`

	// 总体统计
	TotalRuns         int64         `json:"total_runs"`
	TotalFields       int64         `json:"total_fields"`
	TotalExact        int64         `json:"total_exact"`
	TotalPlaceholder  int64         `json:"total_placeholder"`
	TotalUntranslated int64         `json:"total_untranslated"`
	TotalErrors       int64         `json:"total_errors"`
	TotalDuration     time.Duration `json:"total_duration"`

	// 语言对统计
	LanguagePairs map[string]*LanguagePairStats `json:"language_pairs"`

	// 按输入文档统计
	Documents map[string]*DocumentStats `json:"documents"`

	// 最近的运行记录
	RecentRuns []*RunRecord `json:"recent_runs"`
}

// LanguagePairStats 语言对统计
type LanguagePairStats struct {
	SourceLanguage  string        `json:"source_language"`
	TargetLanguage  string        `json:"target_language"`
	RunCount        int64         `json:"run_count"`
	FieldCount      int64         `json:"field_count"`
	ExactCount      int64         `json:"exact_count"`
	ErrorCount      int64         `json:"error_count"`
	AverageDuration time.Duration `json:"average_duration"`
	LastUsed        time.Time     `json:"last_used"`
}

// DocumentStats 单个输入文档的统计
type DocumentStats struct {
	InputFile    string    `json:"input_file"`
	RunCount     int64     `json:"run_count"`
	LastCoverage float64   `json:"last_coverage"`
	BestCoverage float64   `json:"best_coverage"`
	LastUsed     time.Time `json:"last_used"`
}

// RunRecord 一次合并运行的记录
type RunRecord struct {
	ID             string    `json:"id"`
	Timestamp      time.Time `json:"timestamp"`
	InputFile      string    `json:"input_file"`
	OutputFile     string    `json:"output_file"`
	SourceLanguage string    `json:"source_language"`
	TargetLanguage string    `json:"target_language"`

	// 统计信息
	Packs        int           `json:"packs"`
	Fields       int           `json:"fields"`
	Exact        int           `json:"exact"`
	Placeholder  int           `json:"placeholder"`
	Untranslated int           `json:"untranslated"`
	Empty        int           `json:"empty"`
	Retained     int           `json:"retained"`
	Duration     time.Duration `json:"duration"`
	Status       string        `json:"status"`

	// 词典信息
	Fragments []string `json:"fragments,omitempty"`
	Overrides int      `json:"overrides"`

	// 错误信息
	ErrorMessage string `json:"error_message,omitempty"`
}

// Coverage 返回精确匹配占非空字段的比例
func (r *RunRecord) Coverage() float64 {
	translatable := r.Fields - r.Empty
	if translatable <= 0 {
		return 1
	}
	return float64(r.Exact) / float64(translatable)
}

// Failed 判断运行是否失败
func (r *RunRecord) Failed() bool {
	return r.Status == StatusFailed
}
