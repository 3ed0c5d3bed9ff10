package lookup

import (
	"sort"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Suggestion 是与未命中文本相近的词典键
type Suggestion struct {
	Key      string
	Target   string
	Distance int
}

// Suggest 返回编辑距离不超过 maxDistance 的键，按距离和键排序，最多 limit 个。
// 只用于诊断，合并时从不使用近似匹配。
func (t *Table) Suggest(source string, maxDistance, limit int) []Suggestion {
	if t == nil || maxDistance <= 0 || limit <= 0 {
		return nil
	}

	n := utf8.RuneCountInString(source)
	var out []Suggestion
	for key, e := range t.entries {
		if key == source {
			continue
		}
		// 长度差是编辑距离的下界
		diff := utf8.RuneCountInString(key) - n
		if diff > maxDistance || -diff > maxDistance {
			continue
		}
		d := fuzzy.LevenshteinDistance(source, key)
		if d <= maxDistance {
			out = append(out, Suggestion{Key: key, Target: e.target, Distance: d})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Distance != out[j].Distance {
			return out[i].Distance < out[j].Distance
		}
		return out[i].Key < out[j].Key
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
