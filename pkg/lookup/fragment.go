// Package lookup 实现精确匹配的翻译查找表、词典片段以及占位符替换。
package lookup

import (
	"errors"
	"fmt"
	"strings"
)

// Category 是词典片段所属的语义类别
type Category string

const (
	CategoryGeneral     Category = "general"
	CategoryTitle       Category = "title"
	CategorySummary     Category = "summary"
	CategoryHeading     Category = "heading"
	CategoryDescription Category = "description"
	CategoryPrompt      Category = "prompt"
	// CategoryPlaceholder 片段构建占位符映射而不是查找表
	CategoryPlaceholder Category = "placeholder"
)

var knownCategories = map[Category]bool{
	CategoryGeneral:     true,
	CategoryTitle:       true,
	CategorySummary:     true,
	CategoryHeading:     true,
	CategoryDescription: true,
	CategoryPrompt:      true,
	CategoryPlaceholder: true,
}

// ErrLanguageMismatch 片段的语言与本次运行的语言不一致
var ErrLanguageMismatch = errors.New("fragment language mismatch")

// Fragment 是一份带名字和版本的词典
type Fragment struct {
	Name         string
	Version      string
	Category     Category
	SourceLang   string
	TargetLang   string
	Translations map[string]string
	// Origin 记录片段的来源（文件路径或内置名称），仅用于诊断
	Origin string
}

// ID 返回 name@version 形式的标识
func (f *Fragment) ID() string {
	if f.Version == "" {
		return f.Name
	}
	return f.Name + "@" + f.Version
}

// Validate 检查片段元数据
func (f *Fragment) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return errors.New("fragment name must be specified")
	}
	if f.Category == "" {
		f.Category = CategoryGeneral
	}
	if !knownCategories[f.Category] {
		return fmt.Errorf("fragment %s: unknown category %q", f.ID(), f.Category)
	}
	if f.SourceLang == "" || f.TargetLang == "" {
		return fmt.Errorf("fragment %s is missing source_lang or target_lang", f.ID())
	}
	if f.Category == CategoryPlaceholder {
		for key := range f.Translations {
			if !strings.HasPrefix(key, "[") || !strings.HasSuffix(key, "]") {
				return fmt.Errorf("fragment %s: placeholder key %q is not bracket-delimited", f.ID(), key)
			}
		}
	}
	return nil
}

// CheckLanguages 确认片段的语言对与给定语言对一致
func (f *Fragment) CheckLanguages(sourceLang, targetLang string) error {
	if !strings.EqualFold(f.SourceLang, sourceLang) || !strings.EqualFold(f.TargetLang, targetLang) {
		return fmt.Errorf("%w: %s is %s->%s, run is %s->%s",
			ErrLanguageMismatch, f.ID(), f.SourceLang, f.TargetLang, sourceLang, targetLang)
	}
	return nil
}
