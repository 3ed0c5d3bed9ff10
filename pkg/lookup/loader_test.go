package lookup

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFormat(t *testing.T) {
	testCases := []struct {
		name     string
		expected Format
		wantErr  bool
	}{
		{"titles.toml", FormatTOML, false},
		{"dir/Titles.TOML", FormatTOML, false},
		{"prompts.yaml", FormatYAML, false},
		{"prompts.yml", FormatYAML, false},
		{"extra.json", FormatJSON, false},
		{"notes.txt", "", true},
		{"noext", "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			format, err := DetectFormat(tc.name)
			if tc.wantErr {
				assert.True(t, errors.Is(err, ErrUnknownFormat))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, format)
		})
	}
}

func TestDecodeFragment(t *testing.T) {
	testCases := []struct {
		name   string
		format Format
		data   string
	}{
		{
			name:   "toml",
			format: FormatTOML,
			data: `name = "titles"
version = "2"
category = "Title"
source_lang = "en"
target_lang = "zh"

[translations]
"ChatGPT for sales" = "ChatGPT 销售专用"
"Trailing space " = "尾随空格"
`,
		},
		{
			name:   "yaml",
			format: FormatYAML,
			data: `name: titles
version: "2"
category: title
source_lang: en
target_lang: zh
translations:
  "ChatGPT for sales": "ChatGPT 销售专用"
  "Trailing space ": "尾随空格"
`,
		},
		{
			name:   "json",
			format: FormatJSON,
			data: `{"name":"titles","version":"2","category":"title","source_lang":"en","target_lang":"zh",
"translations":{"ChatGPT for sales":"ChatGPT 销售专用","Trailing space ":"尾随空格"}}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f, err := DecodeFragment([]byte(tc.data), tc.format, "fallback")
			require.NoError(t, err)
			assert.Equal(t, "titles@2", f.ID())
			assert.Equal(t, CategoryTitle, f.Category)
			assert.Equal(t, map[string]string{
				"ChatGPT for sales": "ChatGPT 销售专用",
				"Trailing space ":   "尾随空格",
			}, f.Translations)
		})
	}
}

func TestDecodeFragmentFallbackName(t *testing.T) {
	f, err := DecodeFragment([]byte(`source_lang = "en"
target_lang = "zh"
`), FormatTOML, "misc")
	require.NoError(t, err)
	assert.Equal(t, "misc", f.Name)
	assert.Equal(t, CategoryGeneral, f.Category)
	assert.NotNil(t, f.Translations)
	assert.Empty(t, f.Translations)
}

func TestDecodeFragmentErrors(t *testing.T) {
	testCases := []struct {
		name   string
		format Format
		data   string
	}{
		{"invalid toml", FormatTOML, `name = `},
		{"invalid yaml", FormatYAML, "translations: [unclosed"},
		{"invalid json", FormatJSON, `{"name":`},
		{"unknown format", Format("ini"), `name=x`},
		{"bad placeholder key", FormatTOML, `name = "p"
category = "placeholder"
source_lang = "en"
target_lang = "zh"
[translations]
topic = "主题"
`},
		{"missing languages", FormatJSON, `{"name":"x","translations":{}}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeFragment([]byte(tc.data), tc.format, "x")
			assert.Error(t, err)
		})
	}
}

func TestLoadFragmentFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`source_lang: en
target_lang: zh
translations:
  "Prompt one": "提示一"
`), 0644))

	f, err := LoadFragmentFile(path)
	require.NoError(t, err)
	assert.Equal(t, "custom", f.Name)
	assert.Equal(t, path, f.Origin)
	assert.Equal(t, "提示一", f.Translations["Prompt one"])

	_, err = LoadFragmentFile(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}

func TestLoadFragmentFS(t *testing.T) {
	fsys := fstest.MapFS{
		"placeholders.toml": &fstest.MapFile{Data: []byte(`name = "placeholders"
category = "placeholder"
source_lang = "en"
target_lang = "zh"
[translations]
"[topic]" = "[主题]"
`)},
	}

	f, err := LoadFragmentFS(fsys, "placeholders.toml")
	require.NoError(t, err)
	assert.Equal(t, "builtin:placeholders.toml", f.Origin)
	assert.Equal(t, CategoryPlaceholder, f.Category)

	_, err = LoadFragmentFS(fsys, "absent.toml")
	assert.Error(t, err)
}
