// Package report 在终端中渲染合并结果、覆盖率和词典信息
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-runewidth"
	"github.com/nerdneilsfield/packtrans/pkg/lookup"
	"github.com/nerdneilsfield/packtrans/pkg/merge"
	"github.com/nerdneilsfield/packtrans/pkg/packdoc"
)

// DefaultCellWidth 是长文本单元格的默认显示宽度
const DefaultCellWidth = 48

// Renderer 把报告写到 out
type Renderer struct {
	out       io.Writer
	cellWidth int
}

// NewRenderer 创建渲染器，cellWidth <= 0 时使用默认宽度
func NewRenderer(out io.Writer, cellWidth int) *Renderer {
	if cellWidth <= 0 {
		cellWidth = DefaultCellWidth
	}
	return &Renderer{out: out, cellWidth: cellWidth}
}

func (r *Renderer) newTable() table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(r.out)
	tw.SetStyle(table.StyleLight)
	return tw
}

func (r *Renderer) heading(format string, args ...any) {
	color.New(color.FgCyan, color.Bold).Fprintf(r.out, format+"\n", args...)
}

// Summary 渲染一次合并的总计
func (r *Renderer) Summary(rep *merge.Report, elapsed time.Duration) {
	t := rep.Totals
	tw := r.newTable()
	tw.AppendHeader(table.Row{"Item", "Count"})
	tw.AppendRow(table.Row{"Packs", len(rep.Packs)})
	tw.AppendRow(table.Row{"Fields visited", t.Total})
	tw.AppendSeparator()
	tw.AppendRow(table.Row{"Exact match", t.Exact})
	tw.AppendRow(table.Row{"Placeholder fallback", t.Placeholder})
	tw.AppendRow(table.Row{"Untranslated", t.Untranslated})
	tw.AppendRow(table.Row{"Empty", t.Empty})
	if t.Retained > 0 {
		tw.AppendRow(table.Row{"Retained", t.Retained})
	}
	tw.AppendSeparator()
	tw.AppendRow(table.Row{"Exact coverage", percent(t)})
	if elapsed > 0 {
		tw.AppendRow(table.Row{"Elapsed", elapsed.Round(time.Millisecond).String()})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	tw.Render()
}

// Status 渲染每个提示词包与分组的覆盖率
func (r *Renderer) Status(rep *merge.Report) {
	r.heading("Translation coverage")

	tw := r.newTable()
	tw.AppendHeader(table.Row{"#", "Pack / Section", "Exact", "Fallback", "Untranslated", "Coverage", ""})
	for _, p := range rep.Packs {
		tw.AppendRow(table.Row{
			p.Index + 1,
			r.truncate(fmt.Sprintf("%s (%s)", p.Title, p.Slug)),
			fmt.Sprintf("%d/%d", p.Counts.Exact, p.Counts.Translatable()),
			p.Counts.Placeholder + p.Counts.Retained,
			p.Counts.Untranslated,
			percent(p.Counts),
			mark(p.Counts),
		})
		for _, s := range p.Sections {
			name := s.Heading
			if name == "" {
				name = fmt.Sprintf("section %d", s.Index+1)
			}
			tw.AppendRow(table.Row{
				"",
				"  " + r.truncate(name),
				fmt.Sprintf("%d/%d", s.Counts.Exact, s.Counts.Translatable()),
				s.Counts.Placeholder + s.Counts.Retained,
				s.Counts.Untranslated,
				percent(s.Counts),
				mark(s.Counts),
			})
		}
		tw.AppendSeparator()
	}
	tw.AppendFooter(table.Row{
		"",
		"Total",
		fmt.Sprintf("%d/%d", rep.Totals.Exact, rep.Totals.Translatable()),
		rep.Totals.Placeholder + rep.Totals.Retained,
		rep.Totals.Untranslated,
		percent(rep.Totals),
		mark(rep.Totals),
	})
	tw.Render()

	if rep.Totals.Complete() {
		color.New(color.FgGreen).Fprintln(r.out, "All fields resolved by exact match.")
	} else {
		color.New(color.FgYellow).Fprintf(r.out, "%d field(s) are not exact matches.\n",
			rep.Totals.Translatable()-rep.Totals.Exact)
	}
}

// Fields 逐行列出字段结果
func (r *Renderer) Fields(fields []merge.FieldResult) {
	if len(fields) == 0 {
		return
	}
	tw := r.newTable()
	tw.AppendHeader(table.Row{"Path", "Tag", "Source", "Target"})
	for _, f := range fields {
		tw.AppendRow(table.Row{
			f.Location.String(),
			tag(f.Confidence),
			r.truncate(f.Source),
			r.truncate(f.Target),
		})
	}
	tw.Render()
}

// Issue 是 check 命令针对一个字段发现的问题
type Issue struct {
	Field         merge.FieldResult
	Suggestions   []lookup.Suggestion
	MissingTokens []string
}

// Check 渲染 check 命令的结果
func (r *Renderer) Check(issues []Issue) {
	if len(issues) == 0 {
		color.New(color.FgGreen).Fprintln(r.out, "No unmatched fields.")
		return
	}

	r.heading("Unmatched fields (%d)", len(issues))
	for _, issue := range issues {
		f := issue.Field
		fmt.Fprintf(r.out, "\n%s %s\n", tag(f.Confidence), f.Location)
		fmt.Fprintf(r.out, "  source: %q\n", f.Source)
		if f.Target != f.Source {
			fmt.Fprintf(r.out, "  target: %q\n", f.Target)
		}
		for _, s := range issue.Suggestions {
			fmt.Fprintf(r.out, "  did you mean (distance %d): %q\n", s.Distance, s.Key)
		}
		if len(issue.MissingTokens) > 0 {
			color.New(color.FgYellow).Fprintf(r.out, "  placeholders without mapping: %s\n",
				strings.Join(issue.MissingTokens, ", "))
		}
	}
}

// Dictionary 渲染已注册的词典片段与覆盖记录
func (r *Renderer) Dictionary(dict *lookup.Dictionary) {
	r.heading("Dictionary fragments (registration order)")

	tw := r.newTable()
	tw.AppendHeader(table.Row{"#", "Fragment", "Category", "Entries", "Origin"})
	for i, f := range dict.Fragments {
		tw.AppendRow(table.Row{i + 1, f.ID, string(f.Category), f.Entries, r.truncate(f.Origin)})
	}
	tw.AppendFooter(table.Row{"", "Lookup keys", "", dict.Table.Len(), ""})
	tw.AppendFooter(table.Row{"", "Placeholders", "", dict.Placeholders.Len(), ""})
	tw.Render()

	if len(dict.Overrides) == 0 {
		fmt.Fprintln(r.out, "No overridden keys.")
		return
	}

	r.heading("Overridden keys (%d, last registered wins)", len(dict.Overrides))
	ow := r.newTable()
	ow.AppendHeader(table.Row{"Key", "Was", "From", "Now", "From"})
	for _, o := range dict.Overrides {
		ow.AppendRow(table.Row{
			r.truncate(o.Key),
			r.truncate(o.Previous),
			o.PreviousFragment,
			r.truncate(o.Value),
			o.Fragment,
		})
	}
	ow.Render()
}

// truncate 按显示宽度截断，中日韩字符占两列
func (r *Renderer) truncate(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return runewidth.Truncate(s, r.cellWidth, "…")
}

func percent(c merge.Counts) string {
	return fmt.Sprintf("%.0f%%", c.Coverage()*100)
}

func mark(c merge.Counts) string {
	if c.Complete() {
		return "✅"
	}
	return "❌"
}

func tag(c packdoc.Confidence) string {
	switch c {
	case packdoc.ConfidenceExact:
		return color.GreenString(c.String())
	case packdoc.ConfidencePlaceholder, packdoc.ConfidenceRetained:
		return color.YellowString(c.String())
	case packdoc.ConfidenceUntranslated:
		return color.RedString(c.String())
	default:
		return c.String()
	}
}
