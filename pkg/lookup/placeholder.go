package lookup

import (
	"sort"
	"strings"

	"github.com/dlclark/regexp2"
)

// Placeholders 把源语言的方括号占位符替换为目标语言的占位符
type Placeholders struct {
	mapping  map[string]string
	keys     []string
	replacer *strings.Replacer
}

// NewPlaceholders 创建占位符映射，空键会被忽略
func NewPlaceholders(mapping map[string]string) *Placeholders {
	p := &Placeholders{mapping: make(map[string]string, len(mapping))}
	for k, v := range mapping {
		if k == "" {
			continue
		}
		p.mapping[k] = v
		p.keys = append(p.keys, k)
	}

	// 同一位置可能匹配多个键时，较长的键优先，长度相同按字典序
	sort.Slice(p.keys, func(i, j int) bool {
		if len(p.keys[i]) != len(p.keys[j]) {
			return len(p.keys[i]) > len(p.keys[j])
		}
		return p.keys[i] < p.keys[j]
	})

	pairs := make([]string, 0, 2*len(p.keys))
	for _, k := range p.keys {
		pairs = append(pairs, k, p.mapping[k])
	}
	if len(pairs) > 0 {
		p.replacer = strings.NewReplacer(pairs...)
	}
	return p
}

// Substitute 替换 text 中的所有占位符。
// 匹配只在原始文本上进行，已替换的输出不会被再次匹配。没有命中时原样返回。
func (p *Placeholders) Substitute(text string) string {
	if p == nil || p.replacer == nil {
		return text
	}
	return p.replacer.Replace(text)
}

// Has 判断 token 是否有对应的目标语言占位符
func (p *Placeholders) Has(token string) bool {
	if p == nil {
		return false
	}
	_, ok := p.mapping[token]
	return ok
}

// Len 返回占位符数量
func (p *Placeholders) Len() int {
	if p == nil {
		return 0
	}
	return len(p.mapping)
}

// Keys 返回按匹配优先级排列的键
func (p *Placeholders) Keys() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.keys...)
}

// Missing 返回 text 中没有映射的方括号标记
func (p *Placeholders) Missing(text string) []string {
	var missing []string
	for _, token := range Tokens(text) {
		if !p.Has(token) {
			missing = append(missing, token)
		}
	}
	return missing
}

// Substitute 是不需要复用映射时的便捷函数
func Substitute(text string, mapping map[string]string) string {
	return NewPlaceholders(mapping).Substitute(text)
}

var tokenPattern = regexp2.MustCompile(`\[[^\[\]\r\n]+\]`, regexp2.None)

// Tokens 按首次出现的顺序返回 text 中去重后的方括号标记
func Tokens(text string) []string {
	var tokens []string
	seen := make(map[string]bool)

	m, err := tokenPattern.FindStringMatch(text)
	for err == nil && m != nil {
		token := m.String()
		if !seen[token] {
			seen[token] = true
			tokens = append(tokens, token)
		}
		m, err = tokenPattern.FindNextMatch(m)
	}
	return tokens
}
