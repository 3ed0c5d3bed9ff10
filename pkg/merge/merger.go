// Package merge 遍历提示词包文档，为每个双语字段填充目标语言文本。
package merge

import (
	"github.com/nerdneilsfield/packtrans/pkg/lookup"
	"github.com/nerdneilsfield/packtrans/pkg/packdoc"
	"go.uber.org/zap"
)

// Merger 使用查找表与占位符映射合并文档
type Merger struct {
	table        *lookup.Table
	placeholders *lookup.Placeholders
	logger       *zap.Logger
	keepExisting bool
}

// New 创建合并器。table 与 placeholders 可以为 nil，此时所有查找都未命中。
func New(table *lookup.Table, placeholders *lookup.Placeholders, opts ...Option) *Merger {
	options := &mergerOptions{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(options)
	}
	return &Merger{
		table:        table,
		placeholders: placeholders,
		logger:       options.logger,
		keepExisting: options.keepExisting,
	}
}

// Merge 是只使用默认选项时的便捷函数
func Merge(doc *packdoc.Document, table *lookup.Table, placeholders *lookup.Placeholders) (*packdoc.Document, *Report) {
	return New(table, placeholders).Merge(doc)
}

// Merge 返回合并后的新文档和报告，输入文档不会被修改。
// 查找未命中不是错误，因此 Merge 不返回 error。
func (m *Merger) Merge(doc *packdoc.Document) (*packdoc.Document, *Report) {
	out := doc.Clone()
	if out == nil {
		out = &packdoc.Document{}
	}
	report := &Report{}

	for pi, pack := range out.Packs {
		report.Packs = append(report.Packs, PackSummary{Index: pi, Slug: pack.Slug})
		loc := Location{Pack: pi, Slug: pack.Slug, Section: -1, Prompt: -1}

		m.apply(report, &pack.Title, loc, KindTitle)
		m.apply(report, &pack.Summary, loc, KindSummary)
		report.Packs[pi].Title = displayText(pack.Title)

		for si, section := range pack.Sections {
			summary := SectionSummary{Index: si}
			report.Packs[pi].Sections = append(report.Packs[pi].Sections, summary)
			sloc := loc
			sloc.Section = si

			if section.Heading != nil {
				m.apply(report, section.Heading, sloc, KindHeading)
				report.Packs[pi].Sections[si].Heading = displayText(*section.Heading)
			}
			if section.Description != nil {
				m.apply(report, section.Description, sloc, KindDescription)
			}

			for qi, prompt := range section.Prompts {
				ploc := sloc
				ploc.Prompt = qi
				m.apply(report, &prompt.UseCase, ploc, KindUseCase)
				m.apply(report, &prompt.Prompt, ploc, KindPrompt)
			}
		}
	}

	t := report.Totals
	m.logger.Info("merge finished",
		zap.Int("packs", len(out.Packs)),
		zap.Int("fields", t.Total),
		zap.Int("exact", t.Exact),
		zap.Int("placeholder", t.Placeholder),
		zap.Int("untranslated", t.Untranslated),
		zap.Int("empty", t.Empty),
		zap.Int("retained", t.Retained))

	return out, report
}

// Resolve 计算单个字段的目标文本与置信度，不修改 f
func (m *Merger) Resolve(f packdoc.Field) packdoc.Field {
	if f.Source == "" {
		f.Target = ""
		f.Confidence = packdoc.ConfidenceEmpty
		return f
	}

	if target, ok := m.table.Resolve(f.Source); ok {
		f.Target = target
		f.Confidence = packdoc.ConfidenceExact
		return f
	}

	if m.keepExisting && f.Target != "" && f.Target != f.Source {
		f.Confidence = packdoc.ConfidenceRetained
		return f
	}

	substituted := m.placeholders.Substitute(f.Source)
	f.Target = substituted
	if substituted != f.Source {
		f.Confidence = packdoc.ConfidencePlaceholder
	} else {
		f.Confidence = packdoc.ConfidenceUntranslated
	}
	return f
}

func (m *Merger) apply(report *Report, f *packdoc.Field, loc Location, kind FieldKind) {
	loc.Kind = kind
	*f = m.Resolve(*f)

	res := FieldResult{
		Location:   loc,
		Source:     f.Source,
		Target:     f.Target,
		Confidence: f.Confidence,
	}
	if f.Confidence == packdoc.ConfidenceExact {
		res.Origin = m.table.Origin(f.Source)
	}
	report.record(res)

	if ce := m.logger.Check(zap.DebugLevel, "field merged"); ce != nil {
		ce.Write(
			zap.Stringer("path", loc),
			zap.Stringer("confidence", f.Confidence),
			zap.String("origin", res.Origin))
	}
}

// displayText 优先返回目标文本
func displayText(f packdoc.Field) string {
	if f.Target != "" {
		return f.Target
	}
	return f.Source
}
