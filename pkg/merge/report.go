package merge

import (
	"fmt"

	"github.com/nerdneilsfield/packtrans/pkg/packdoc"
)

// FieldKind 是双语字段在文档中的角色
type FieldKind string

const (
	KindTitle       FieldKind = "title"
	KindSummary     FieldKind = "summary"
	KindHeading     FieldKind = "heading"
	KindDescription FieldKind = "description"
	KindUseCase     FieldKind = "useCase"
	KindPrompt      FieldKind = "prompt"
)

// Location 定位一个字段。包级字段的 Section 为 -1，分组级字段的 Prompt 为 -1。
type Location struct {
	Pack    int
	Slug    string
	Section int
	Prompt  int
	Kind    FieldKind
}

// String 返回与加载错误一致的路径，例如 [0].sections[1].prompts[2].useCase
func (l Location) String() string {
	switch {
	case l.Section < 0:
		return fmt.Sprintf("[%d].%s", l.Pack, l.Kind)
	case l.Prompt < 0:
		return fmt.Sprintf("[%d].sections[%d].%s", l.Pack, l.Section, l.Kind)
	default:
		return fmt.Sprintf("[%d].sections[%d].prompts[%d].%s", l.Pack, l.Section, l.Prompt, l.Kind)
	}
}

// FieldResult 是单个字段的合并结果
type FieldResult struct {
	Location   Location
	Source     string
	Target     string
	Confidence packdoc.Confidence
	// Origin 是命中的词典片段，仅精确匹配时有值
	Origin string
}

// Counts 按置信度统计字段数量
type Counts struct {
	Total        int
	Empty        int
	Exact        int
	Placeholder  int
	Untranslated int
	Retained     int
}

func (c *Counts) add(conf packdoc.Confidence) {
	c.Total++
	switch conf {
	case packdoc.ConfidenceEmpty:
		c.Empty++
	case packdoc.ConfidenceExact:
		c.Exact++
	case packdoc.ConfidencePlaceholder:
		c.Placeholder++
	case packdoc.ConfidenceUntranslated:
		c.Untranslated++
	case packdoc.ConfidenceRetained:
		c.Retained++
	}
}

// Translatable 返回源文本非空的字段数
func (c Counts) Translatable() int {
	return c.Total - c.Empty
}

// Coverage 返回精确匹配占非空字段的比例，没有非空字段时为 1
func (c Counts) Coverage() float64 {
	if c.Translatable() == 0 {
		return 1
	}
	return float64(c.Exact) / float64(c.Translatable())
}

// Complete 判断所有非空字段都是精确匹配
func (c Counts) Complete() bool {
	return c.Exact == c.Translatable()
}

// SectionSummary 是一个分组的统计
type SectionSummary struct {
	Index   int
	Heading string
	Counts  Counts
}

// PackSummary 是一个提示词包的统计，Counts 包括包级字段
type PackSummary struct {
	Index    int
	Slug     string
	Title    string
	Counts   Counts
	Sections []SectionSummary
}

// Report 按遍历顺序记录每个字段的结果
type Report struct {
	Fields []FieldResult
	Totals Counts
	Packs  []PackSummary
}

// Filter 返回置信度属于 confs 的字段
func (r *Report) Filter(confs ...packdoc.Confidence) []FieldResult {
	want := make(map[packdoc.Confidence]bool, len(confs))
	for _, c := range confs {
		want[c] = true
	}
	var out []FieldResult
	for _, f := range r.Fields {
		if want[f.Confidence] {
			out = append(out, f)
		}
	}
	return out
}

func (r *Report) record(res FieldResult) {
	r.Fields = append(r.Fields, res)
	r.Totals.add(res.Confidence)

	pack := &r.Packs[len(r.Packs)-1]
	pack.Counts.add(res.Confidence)
	if res.Location.Section >= 0 {
		pack.Sections[len(pack.Sections)-1].Counts.add(res.Confidence)
	}
}
