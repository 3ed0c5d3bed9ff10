package lookup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubstitute(t *testing.T) {
	mapping := map[string]string{
		"[topic]":           "[主题]",
		"[date]":            "[日期]",
		"[attendees]":       "[参会者]",
		"[attendees/roles]": "[参会者/角色]",
	}

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "all occurrences replaced",
			input:    "About [topic], then [topic] again on [date].",
			expected: "About [主题], then [主题] again on [日期].",
		},
		{
			name:     "identity when nothing matches",
			input:    "Unseen prompt with no placeholders.",
			expected: "Unseen prompt with no placeholders.",
		},
		{
			name:     "unknown tokens untouched",
			input:    "Ask [customer name] about [topic].",
			expected: "Ask [customer name] about [主题].",
		},
		{
			name:     "similar keys do not collide",
			input:    "Invite [attendees] and [attendees/roles].",
			expected: "Invite [参会者] and [参会者/角色].",
		},
		{
			name:     "empty text",
			input:    "",
			expected: "",
		},
	}

	p := NewPlaceholders(mapping)
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, p.Substitute(tc.input))
			assert.Equal(t, tc.expected, Substitute(tc.input, mapping))
		})
	}
}

func TestSubstituteDoesNotCascade(t *testing.T) {
	// 第一个键的替换结果包含第二个键，不应被再次替换
	p := NewPlaceholders(map[string]string{
		"[a]": "[b]",
		"[b]": "[c]",
	})
	assert.Equal(t, "[b] [c]", p.Substitute("[a] [b]"))
}

func TestSubstituteLongerKeyWins(t *testing.T) {
	p := NewPlaceholders(map[string]string{
		"[x":   "SHORT",
		"[x]]": "LONG",
	})
	assert.Equal(t, "LONG", p.Substitute("[x]]"))
	assert.Equal(t, []string{"[x]]", "[x"}, p.Keys())
}

func TestSubstituteIsDeterministic(t *testing.T) {
	mapping := map[string]string{"[a]": "1", "[b]": "2", "[c]": "3", "[d]": "4"}
	expected := Substitute("[d][c][b][a]", mapping)
	for i := 0; i < 50; i++ {
		assert.Equal(t, expected, Substitute("[d][c][b][a]", mapping))
	}
	assert.Equal(t, "4321", expected)
}

func TestNilAndEmptyPlaceholders(t *testing.T) {
	var p *Placeholders
	assert.Equal(t, "[topic]", p.Substitute("[topic]"))
	assert.False(t, p.Has("[topic]"))
	assert.Equal(t, 0, p.Len())

	empty := NewPlaceholders(map[string]string{"": "never"})
	assert.Equal(t, 0, empty.Len())
	assert.Equal(t, "text", empty.Substitute("text"))
}

func TestTokens(t *testing.T) {
	text := "Email [recipient] about [topic]. Mention [topic] and [paste text]. Edge: [ ] [\n]"
	assert.Equal(t, []string{"[recipient]", "[topic]", "[paste text]", "[ ]"}, Tokens(text))
	assert.Nil(t, Tokens("no tokens here"))
}

func TestMissing(t *testing.T) {
	p := NewPlaceholders(map[string]string{"[topic]": "[主题]"})
	assert.Equal(t, []string{"[customer name]"}, p.Missing("Tell [customer name] about [topic]."))
	assert.Empty(t, p.Missing("About [topic]."))
}
