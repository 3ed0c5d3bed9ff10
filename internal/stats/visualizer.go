package stats

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

// Visualizer 运行记录可视化器
type Visualizer struct {
	db  *Database
	out io.Writer
}

// NewVisualizer 创建可视化器
func NewVisualizer(db *Database, out io.Writer) *Visualizer {
	return &Visualizer{db: db, out: out}
}

// ShowOverview 显示总览
func (v *Visualizer) ShowOverview() {
	stats := v.db.GetStats()

	// 标题
	title := color.New(color.FgCyan, color.Bold)
	title.Fprintln(v.out, "📊 Merge Run Overview")
	title.Fprintln(v.out, strings.Repeat("=", 50))

	coverage := "N/A"
	if stats.TotalFields > 0 {
		coverage = fmt.Sprintf("%.1f%%", float64(stats.TotalExact)/float64(stats.TotalFields)*100)
	}

	// 总体统计
	fmt.Fprintln(v.out)
	v.printSection("🎯 Overall Statistics", [][]string{
		{"Total Runs", formatNumber(stats.TotalRuns)},
		{"Total Fields", formatNumber(stats.TotalFields)},
		{"Exact Matches", formatNumber(stats.TotalExact)},
		{"Placeholder Fallbacks", formatNumber(stats.TotalPlaceholder)},
		{"Untranslated", formatNumber(stats.TotalUntranslated)},
		{"Exact Share", coverage},
		{"Total Errors", formatNumber(stats.TotalErrors)},
		{"Total Duration", formatDuration(stats.TotalDuration)},
		{"Database Created", formatTime(stats.CreatedAt)},
		{"Last Updated", formatTime(stats.LastUpdated)},
	})
}

// ShowLanguagePairs 显示语言对统计
func (v *Visualizer) ShowLanguagePairs() {
	stats := v.db.GetStats()

	title := color.New(color.FgMagenta, color.Bold)
	title.Fprintln(v.out, "🌍 Language Pair Statistics")
	title.Fprintln(v.out, strings.Repeat("=", 50))

	if len(stats.LanguagePairs) == 0 {
		fmt.Fprintln(v.out, "No language pair data available.")
		return
	}

	// 按运行次数排序
	pairs := make([]*LanguagePairStats, 0, len(stats.LanguagePairs))
	for _, pair := range stats.LanguagePairs {
		pairs = append(pairs, pair)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].RunCount != pairs[j].RunCount {
			return pairs[i].RunCount > pairs[j].RunCount
		}
		return pairs[i].SourceLanguage+pairs[i].TargetLanguage < pairs[j].SourceLanguage+pairs[j].TargetLanguage
	})

	fmt.Fprintln(v.out)
	for i, pair := range pairs {
		if i > 0 {
			fmt.Fprintln(v.out)
		}

		langPair := fmt.Sprintf("%s → %s", pair.SourceLanguage, pair.TargetLanguage)
		successRate := float64(pair.RunCount-pair.ErrorCount) / float64(pair.RunCount) * 100

		v.printSection(fmt.Sprintf("🔄 %s", langPair), [][]string{
			{"Runs", formatNumber(pair.RunCount)},
			{"Fields", formatNumber(pair.FieldCount)},
			{"Exact Matches", formatNumber(pair.ExactCount)},
			{"Errors", formatNumber(pair.ErrorCount)},
			{"Success Rate", fmt.Sprintf("%.1f%%", successRate)},
			{"Avg Duration", formatDuration(pair.AverageDuration)},
			{"Last Used", formatTime(pair.LastUsed)},
		})
	}
}

// ShowRecentRuns 显示最近的运行
func (v *Visualizer) ShowRecentRuns(limit int) {
	records := v.db.GetRecentRuns(limit)

	title := color.New(color.FgBlue, color.Bold)
	title.Fprintf(v.out, "🕒 Recent Runs (Last %d)\n", len(records))
	title.Fprintln(v.out, strings.Repeat("=", 50))

	if len(records) == 0 {
		fmt.Fprintln(v.out, "No recent runs found.")
		return
	}

	for i, record := range records {
		if i > 0 {
			fmt.Fprintln(v.out)
		}

		status := "✅"
		switch record.Status {
		case StatusFailed:
			status = "❌"
		case StatusDryRun:
			status = "🔍"
		}

		heading := runewidth.Truncate(fmt.Sprintf("%s %s", status, record.InputFile), 60, "...")

		rows := [][]string{
			{"Run ID", record.ID},
			{"Timestamp", formatTime(record.Timestamp)},
			{"Language", fmt.Sprintf("%s → %s", record.SourceLanguage, record.TargetLanguage)},
			{"Fields", fmt.Sprintf("%d (%d exact, %d placeholder, %d untranslated)",
				record.Fields, record.Exact, record.Placeholder, record.Untranslated)},
			{"Exact Coverage", fmt.Sprintf("%.1f%%", record.Coverage()*100)},
			{"Duration", formatDuration(record.Duration)},
		}
		if record.OutputFile != "" {
			rows = append(rows, []string{"Output", record.OutputFile})
		}
		v.printSection(heading, rows)

		if record.ErrorMessage != "" {
			errorColor := color.New(color.FgRed)
			errorColor.Fprintf(v.out, "  ❌ Error: %s\n", record.ErrorMessage)
		}
	}
}

// printSection 打印一个统计部分
func (v *Visualizer) printSection(title string, data [][]string) {
	sectionColor := color.New(color.FgYellow, color.Bold)
	sectionColor.Fprintf(v.out, "%s\n", title)

	// 计算最大标签长度
	maxLabelLen := 0
	for _, row := range data {
		if len(row[0]) > maxLabelLen {
			maxLabelLen = len(row[0])
		}
	}

	labelColor := color.New(color.FgCyan)
	valueColor := color.New(color.FgWhite, color.Bold)

	// 打印数据
	for _, row := range data {
		label := fmt.Sprintf("  %-*s", maxLabelLen, row[0])
		labelColor.Fprintf(v.out, "%s: ", label)
		valueColor.Fprintln(v.out, row[1])
	}
}

// 辅助函数

// formatNumber 格式化数字（添加千位分隔符）
func formatNumber(n int64) string {
	str := strconv.FormatInt(n, 10)
	if len(str) <= 3 {
		return str
	}

	var result strings.Builder
	for i, char := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result.WriteString(",")
		}
		result.WriteRune(char)
	}
	return result.String()
}

// formatDuration 格式化持续时间
func formatDuration(d time.Duration) string {
	if d == 0 {
		return "0s"
	}

	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d.Nanoseconds())/1e6)
	}

	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}

	if d < time.Hour {
		return fmt.Sprintf("%.1fm", d.Minutes())
	}

	return fmt.Sprintf("%.1fh", d.Hours())
}

// formatTime 格式化时间
func formatTime(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}

	now := time.Now()
	if t.Year() == now.Year() && t.Month() == now.Month() && t.Day() == now.Day() {
		return t.Format("15:04:05")
	}

	if t.Year() == now.Year() {
		return t.Format("Jan 02 15:04")
	}

	return t.Format("2006-01-02 15:04")
}
