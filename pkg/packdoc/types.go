// Package packdoc 定义提示词包文档的数据模型，以及文档的加载与保存。
package packdoc

import "encoding/json"

// Confidence 表示一个双语字段目标文本的来源
type Confidence int

const (
	// ConfidenceUnknown 字段尚未经过合并（例如刚从磁盘加载）
	ConfidenceUnknown Confidence = iota
	// ConfidenceEmpty 源文本为空，目标文本同样为空
	ConfidenceEmpty
	// ConfidenceExact 查找表精确命中
	ConfidenceExact
	// ConfidencePlaceholder 未命中，但占位符被替换为目标语言
	ConfidencePlaceholder
	// ConfidenceUntranslated 未命中且没有可替换的占位符，目标文本等于源文本
	ConfidenceUntranslated
	// ConfidenceRetained 未命中，保留了文档中已有的目标文本
	ConfidenceRetained
)

var confidenceNames = map[Confidence]string{
	ConfidenceUnknown:      "unknown",
	ConfidenceEmpty:        "empty",
	ConfidenceExact:        "exact",
	ConfidencePlaceholder:  "placeholder",
	ConfidenceUntranslated: "untranslated",
	ConfidenceRetained:     "retained",
}

func (c Confidence) String() string {
	if name, ok := confidenceNames[c]; ok {
		return name
	}
	return "unknown"
}

// Field 是一个双语字段。Source 一旦加载就不会被合并过程修改。
type Field struct {
	Source     string
	Target     string
	Confidence Confidence
	// Extra 保存其他语言等未知键
	Extra []Member
}

// NewField 创建只有源文本的字段
func NewField(source string) Field {
	return Field{Source: source}
}

// Member 是一个未知键值对，按原始顺序原样保留
type Member struct {
	Key   string
	Value json.RawMessage
}

// Prompt 是分组中的一条提示词
type Prompt struct {
	UseCase Field
	Prompt  Field
	// URL 不翻译，原样保留（可能为 null）
	URL   json.RawMessage
	Extra []Member
}

// Section 是提示词包中的一个分组
type Section struct {
	// Heading 与 Description 为 nil 表示缺失或 null
	Heading     *Field
	Description *Field
	// NullHeading 与 NullDescription 记录键存在但值为 null，保存时写回 null
	NullHeading     bool
	NullDescription bool
	Prompts         []*Prompt
	Extra           []Member
}

// Pack 是一个提示词包
type Pack struct {
	Title    Field
	Slug     string
	Summary  Field
	CoverURL json.RawMessage
	Sections []*Section
	Extra    []Member
}

// Document 是有序的提示词包列表
type Document struct {
	Packs []*Pack
}

// Clone 返回文档的深拷贝
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := &Document{}
	if d.Packs != nil {
		out.Packs = make([]*Pack, 0, len(d.Packs))
	}
	for _, p := range d.Packs {
		out.Packs = append(out.Packs, p.Clone())
	}
	return out
}

// Clone 返回提示词包的深拷贝
func (p *Pack) Clone() *Pack {
	out := &Pack{
		Title:    p.Title.clone(),
		Slug:     p.Slug,
		Summary:  p.Summary.clone(),
		CoverURL: cloneRaw(p.CoverURL),
		Extra:    cloneMembers(p.Extra),
	}
	if p.Sections != nil {
		out.Sections = make([]*Section, 0, len(p.Sections))
	}
	for _, s := range p.Sections {
		out.Sections = append(out.Sections, s.Clone())
	}
	return out
}

// Clone 返回分组的深拷贝
func (s *Section) Clone() *Section {
	out := &Section{
		Heading:         cloneField(s.Heading),
		Description:     cloneField(s.Description),
		NullHeading:     s.NullHeading,
		NullDescription: s.NullDescription,
		Extra:           cloneMembers(s.Extra),
	}
	if s.Prompts != nil {
		out.Prompts = make([]*Prompt, 0, len(s.Prompts))
	}
	for _, p := range s.Prompts {
		out.Prompts = append(out.Prompts, &Prompt{
			UseCase: p.UseCase.clone(),
			Prompt:  p.Prompt.clone(),
			URL:     cloneRaw(p.URL),
			Extra:   cloneMembers(p.Extra),
		})
	}
	return out
}

// FieldCount 返回文档中双语字段的总数（包括空字段）
func (d *Document) FieldCount() int {
	n := 0
	for _, p := range d.Packs {
		n += 2
		for _, s := range p.Sections {
			if s.Heading != nil {
				n++
			}
			if s.Description != nil {
				n++
			}
			n += 2 * len(s.Prompts)
		}
	}
	return n
}

func (f Field) clone() Field {
	f.Extra = cloneMembers(f.Extra)
	return f
}

func cloneField(f *Field) *Field {
	if f == nil {
		return nil
	}
	c := f.clone()
	return &c
}

func cloneRaw(raw json.RawMessage) json.RawMessage {
	if raw == nil {
		return nil
	}
	out := make(json.RawMessage, len(raw))
	copy(out, raw)
	return out
}

func cloneMembers(members []Member) []Member {
	if members == nil {
		return nil
	}
	out := make([]Member, len(members))
	for i, m := range members {
		out[i] = Member{Key: m.Key, Value: cloneRaw(m.Value)}
	}
	return out
}
