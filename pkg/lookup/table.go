package lookup

import (
	"sort"
)

type entry struct {
	target   string
	fragment string
}

// Table 是不可变的精确匹配查找表。
// 键按字节精确比较，不做任何裁剪、大小写折叠或 Unicode 规范化。
type Table struct {
	entries map[string]entry
}

// NewTable 从单个映射创建查找表，主要用于测试和简单场景
func NewTable(translations map[string]string) *Table {
	t := &Table{entries: make(map[string]entry, len(translations))}
	for k, v := range translations {
		t.entries[k] = entry{target: v}
	}
	return t
}

// Resolve 查找源文本对应的目标文本
func (t *Table) Resolve(source string) (string, bool) {
	if t == nil {
		return "", false
	}
	e, ok := t.entries[source]
	return e.target, ok
}

// Origin 返回提供该键的片段标识，未命中时返回空字符串
func (t *Table) Origin(source string) string {
	if t == nil {
		return ""
	}
	return t.entries[source].fragment
}

// Len 返回条目数
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Keys 返回排序后的全部键
func (t *Table) Keys() []string {
	if t == nil {
		return nil
	}
	keys := make([]string, 0, len(t.entries))
	for k := range t.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Override 记录一次后注册片段覆盖先注册片段的情况
type Override struct {
	Key              string
	Previous         string
	PreviousFragment string
	Value            string
	Fragment         string
	Placeholder      bool
}

// FragmentInfo 是已注册片段的摘要
type FragmentInfo struct {
	ID       string
	Category Category
	Entries  int
	Origin   string
}

// Dictionary 是 Builder 的产物
type Dictionary struct {
	Table        *Table
	Placeholders *Placeholders
	Fragments    []FragmentInfo
	Overrides    []Override
}

// Builder 按注册顺序合并片段，同一个键以最后注册的为准
type Builder struct {
	table        map[string]entry
	placeholders map[string]entry
	fragments    []FragmentInfo
	overrides    []Override
}

// NewBuilder 创建空的 Builder
func NewBuilder() *Builder {
	return &Builder{
		table:        make(map[string]entry),
		placeholders: make(map[string]entry),
	}
}

// Add 注册一个片段。片段元数据无效时返回错误且不做任何修改。
func (b *Builder) Add(f *Fragment) error {
	if err := f.Validate(); err != nil {
		return err
	}

	target := b.table
	isPlaceholder := f.Category == CategoryPlaceholder
	if isPlaceholder {
		target = b.placeholders
	}

	// 按键排序遍历，使覆盖记录的顺序稳定
	keys := make([]string, 0, len(f.Translations))
	for k := range f.Translations {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	id := f.ID()
	for _, k := range keys {
		v := f.Translations[k]
		if prev, ok := target[k]; ok && prev.target != v {
			b.overrides = append(b.overrides, Override{
				Key:              k,
				Previous:         prev.target,
				PreviousFragment: prev.fragment,
				Value:            v,
				Fragment:         id,
				Placeholder:      isPlaceholder,
			})
		}
		target[k] = entry{target: v, fragment: id}
	}

	b.fragments = append(b.fragments, FragmentInfo{
		ID:       id,
		Category: f.Category,
		Entries:  len(f.Translations),
		Origin:   f.Origin,
	})
	return nil
}

// Build 生成不可变的查找表与占位符映射。Builder 之后仍可继续使用。
func (b *Builder) Build() *Dictionary {
	table := &Table{entries: make(map[string]entry, len(b.table))}
	for k, e := range b.table {
		table.entries[k] = e
	}

	mapping := make(map[string]string, len(b.placeholders))
	for k, e := range b.placeholders {
		mapping[k] = e.target
	}

	return &Dictionary{
		Table:        table,
		Placeholders: NewPlaceholders(mapping),
		Fragments:    append([]FragmentInfo(nil), b.fragments...),
		Overrides:    append([]Override(nil), b.overrides...),
	}
}
