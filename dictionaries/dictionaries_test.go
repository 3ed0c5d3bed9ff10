package dictionaries

import (
	"testing"

	"github.com/nerdneilsfield/packtrans/pkg/lookup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinFragments(t *testing.T) {
	fragments, err := Fragments()
	require.NoError(t, err)

	names, err := Names()
	require.NoError(t, err)
	require.Len(t, fragments, len(names))
	assert.Equal(t, "placeholders.toml", names[len(names)-1])

	b := lookup.NewBuilder()
	for _, f := range fragments {
		assert.NoError(t, f.CheckLanguages("en", "zh"), f.ID())
		require.NoError(t, b.Add(f))
	}
	dict := b.Build()

	got, ok := dict.Table.Resolve("ChatGPT for sales")
	require.True(t, ok)
	assert.Equal(t, "ChatGPT 销售专用", got)

	// 销售包摘要的键带有尾随空格
	_, ok = dict.Table.Resolve("Sales-focused prompts designed to streamline outreach, strategy, competitive intelligence, data analysis, and visual enablement tasks. ")
	assert.True(t, ok)
	_, ok = dict.Table.Resolve("Sales-focused prompts designed to streamline outreach, strategy, competitive intelligence, data analysis, and visual enablement tasks.")
	assert.False(t, ok)

	got, ok = dict.Table.Resolve("Write a professional email to [recipient]. The email is about [topic] and should be polite, clear, and concise. Provide a subject line and a short closing.")
	require.True(t, ok)
	assert.Equal(t, "撰写一封发送给 [收件人] 的专业邮件。邮件主题是 [主题],语气应礼貌、清晰、简洁。请提供邮件主题行和简短的结尾。", got)

	assert.Equal(t, "[主题]", dict.Placeholders.Substitute("[topic]"))
	assert.Equal(t, "[参会者/角色] [参会者]", dict.Placeholders.Substitute("[attendees/roles] [attendees]"))
	assert.Empty(t, dict.Overrides)
}
