package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/nerdneilsfield/packtrans/pkg/lookup"
	"github.com/nerdneilsfield/packtrans/pkg/merge"
	"github.com/nerdneilsfield/packtrans/pkg/packdoc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

func sampleReport() *merge.Report {
	heading := packdoc.NewField("Communication & writing")
	doc := &packdoc.Document{Packs: []*packdoc.Pack{{
		Title:   packdoc.NewField("ChatGPT for any role"),
		Slug:    "chatgpt-for-any-role",
		Summary: packdoc.NewField("Learn use cases and prompts for any role."),
		Sections: []*packdoc.Section{{
			Heading: &heading,
			Prompts: []*packdoc.Prompt{{
				UseCase: packdoc.NewField("Write a professional email"),
				Prompt:  packdoc.NewField("Email [recipient] about [topic]."),
			}},
		}},
	}}}
	table := lookup.NewTable(map[string]string{
		"ChatGPT for any role":       "ChatGPT 全角色应用",
		"Communication & writing":    "沟通与写作",
		"Write a professional email": "撰写专业邮件",
	})
	placeholders := lookup.NewPlaceholders(map[string]string{"[topic]": "[主题]"})
	_, rep := merge.Merge(doc, table, placeholders)
	return rep
}

func TestSummary(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(&buf, 0).Summary(sampleReport(), 1500*time.Millisecond)

	out := buf.String()
	assert.Contains(t, out, "Fields visited")
	assert.Contains(t, out, "Placeholder fallback")
	assert.Contains(t, out, "60%")
	assert.Contains(t, out, "1.5s")
	assert.NotContains(t, out, "Retained")
}

func TestStatus(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(&buf, 0).Status(sampleReport())

	out := buf.String()
	assert.Contains(t, out, "ChatGPT 全角色应用 (chatgpt-for-any-role)")
	assert.Contains(t, out, "沟通与写作")
	assert.Contains(t, out, "3/5")
	assert.Contains(t, out, "❌")
	assert.Contains(t, out, "2 field(s) are not exact matches.")
}

func TestFieldsTruncatesWideText(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, 10)
	r.Fields([]merge.FieldResult{{
		Location:   merge.Location{Pack: 0, Section: -1, Prompt: -1, Kind: merge.KindTitle},
		Source:     "A very long English title",
		Target:     "一个非常非常长的中文标题",
		Confidence: packdoc.ConfidenceExact,
	}})

	out := buf.String()
	assert.Contains(t, out, "[0].title")
	assert.Contains(t, out, "exact")
	assert.NotContains(t, out, "A very long English title")
	assert.Contains(t, out, "…")

	buf.Reset()
	r.Fields(nil)
	assert.Empty(t, buf.String())
}

func TestCheck(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, 0)
	r.Check(nil)
	assert.Contains(t, buf.String(), "No unmatched fields.")

	buf.Reset()
	r.Check([]Issue{{
		Field: merge.FieldResult{
			Location:   merge.Location{Pack: 0, Section: 0, Prompt: 0, Kind: merge.KindPrompt},
			Source:     "Email [recipient] about [topic].",
			Target:     "Email [recipient] about [主题].",
			Confidence: packdoc.ConfidencePlaceholder,
		},
		Suggestions:   []lookup.Suggestion{{Key: "Email [recipient] about [topic]!", Distance: 1}},
		MissingTokens: []string{"[recipient]"},
	}})

	out := buf.String()
	assert.Contains(t, out, "Unmatched fields (1)")
	assert.Contains(t, out, "placeholder [0].sections[0].prompts[0].prompt")
	assert.Contains(t, out, `did you mean (distance 1): "Email [recipient] about [topic]!"`)
	assert.Contains(t, out, "placeholders without mapping: [recipient]")
}

func TestDictionary(t *testing.T) {
	b := lookup.NewBuilder()
	require.NoError(t, b.Add(&lookup.Fragment{Name: "a", Version: "1", SourceLang: "en", TargetLang: "zh",
		Translations: map[string]string{"Hello": "你好"}}))
	require.NoError(t, b.Add(&lookup.Fragment{Name: "b", Version: "2", SourceLang: "en", TargetLang: "zh",
		Translations: map[string]string{"Hello": "您好"}}))

	var buf bytes.Buffer
	NewRenderer(&buf, 0).Dictionary(b.Build())

	out := buf.String()
	assert.Contains(t, out, "a@1")
	assert.Contains(t, out, "b@2")
	assert.Contains(t, out, "Overridden keys (1, last registered wins)")
	assert.Contains(t, out, "您好")
	assert.Equal(t, 1, strings.Count(out, "Overridden keys"))
}
