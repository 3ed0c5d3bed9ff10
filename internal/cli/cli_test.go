package cli_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/nerdneilsfield/packtrans/internal/cli"
	"github.com/nerdneilsfield/packtrans/pkg/lookup"
	"github.com/nerdneilsfield/packtrans/pkg/packdoc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

const testDoc = `[
  {
    "title": "ChatGPT for sales",
    "slug": "use-cases-sales",
    "summary": "Sales prompts.",
    "sections": [
      {
        "heading": "Outreach",
        "prompts": [
          {"useCase": "Research a prospect", "prompt": "Look up [company name]."},
          {"useCase": "Unknown thing", "prompt": {"en": "Nothing here", "zh": "这里没有"}}
        ]
      }
    ]
  }
]`

const extraFragment = `name = "extra"
version = "1"
category = "prompt"
source_lang = "en"
target_lang = "zh"

[translations]
"ChatGPT for sales" = "ChatGPT 销售"
"Research a prospect" = "调研潜在客户"
"Research a prospects" = "调研一些潜在客户"
`

const placeholderFragment = `name: extra-placeholders
version: "1"
category: placeholder
source_lang: en
target_lang: zh
translations:
  "[company name]": "[公司名称]"
`

type workspace struct {
	dir       string
	config    string
	stats     string
	doc       string
	fragment  string
	tokens    string
	stdin     string
	lastError error
}

func newWorkspace(t *testing.T) *workspace {
	t.Helper()
	dir := t.TempDir()
	w := &workspace{
		dir:      dir,
		config:   filepath.Join(dir, ".packtrans.yaml"),
		stats:    filepath.Join(dir, "cache", "stats.json"),
		doc:      filepath.Join(dir, "packs.json"),
		fragment: filepath.Join(dir, "extra.toml"),
		tokens:   filepath.Join(dir, "placeholders.yaml"),
	}
	config := "stats_path: " + w.stats + "\nsuggest_distance: 3\n"
	require.NoError(t, os.WriteFile(w.config, []byte(config), 0644))
	require.NoError(t, os.WriteFile(w.doc, []byte(testDoc), 0644))
	require.NoError(t, os.WriteFile(w.fragment, []byte(extraFragment), 0644))
	require.NoError(t, os.WriteFile(w.tokens, []byte(placeholderFragment), 0644))
	return w
}

// run 在进程内执行命令并返回标准输出
func (w *workspace) run(args ...string) string {
	cmd := cli.NewRootCommand("test", "none", "unknown")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(w.stdin))
	cmd.SetArgs(append([]string{"--config", w.config}, args...))
	w.lastError = cmd.Execute()
	return out.String()
}

func (w *workspace) withDicts(args ...string) []string {
	return append([]string{"--no-builtin", "--dict", w.fragment, "--dict", w.tokens}, args...)
}

func (w *workspace) loadDoc(t *testing.T, path string) *packdoc.Document {
	t.Helper()
	doc, err := packdoc.Load(path)
	require.NoError(t, err)
	return doc
}

func TestMergeInPlace(t *testing.T) {
	w := newWorkspace(t)

	out := w.run(w.withDicts(w.doc)...)
	require.NoError(t, w.lastError)
	assert.Contains(t, out, "Fields visited")
	assert.Contains(t, out, "29%")

	doc := w.loadDoc(t, w.doc)
	pack := doc.Packs[0]
	assert.Equal(t, "ChatGPT 销售", pack.Title.Target)
	assert.Equal(t, "Sales prompts.", pack.Summary.Target)
	assert.Equal(t, "Outreach", pack.Sections[0].Heading.Target)
	assert.Equal(t, "调研潜在客户", pack.Sections[0].Prompts[0].UseCase.Target)
	assert.Equal(t, "Look up [公司名称].", pack.Sections[0].Prompts[0].Prompt.Target)
	assert.Equal(t, "Nothing here", pack.Sections[0].Prompts[1].Prompt.Target)

	// 再次合并结果不变
	first, err := os.ReadFile(w.doc)
	require.NoError(t, err)
	w.run(w.withDicts(w.doc)...)
	require.NoError(t, w.lastError)
	second, err := os.ReadFile(w.doc)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))

	_, err = os.Stat(w.stats)
	assert.NoError(t, err, "run should be recorded")
}

func TestMergeToOutputFile(t *testing.T) {
	w := newWorkspace(t)
	output := filepath.Join(w.dir, "out.json")

	out := w.run(w.withDicts("--verbose", "--keep-existing", w.doc, output)...)
	require.NoError(t, w.lastError)
	assert.Contains(t, out, "[0].sections[0].prompts[1].prompt")
	assert.Contains(t, out, "retained")

	original, err := os.ReadFile(w.doc)
	require.NoError(t, err)
	assert.Equal(t, testDoc, string(original))

	doc := w.loadDoc(t, output)
	assert.Equal(t, "这里没有", doc.Packs[0].Sections[0].Prompts[1].Prompt.Target)
}

func TestMergeDryRun(t *testing.T) {
	w := newWorkspace(t)
	output := filepath.Join(w.dir, "out.json")

	w.run(w.withDicts("--dry-run", "--no-stats", w.doc, output)...)
	require.NoError(t, w.lastError)

	_, err := os.Stat(output)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(w.stats)
	assert.True(t, os.IsNotExist(err), "--no-stats should skip recording")
}

func TestMergeBuiltinDictionaries(t *testing.T) {
	w := newWorkspace(t)

	w.run("--no-stats", w.doc)
	require.NoError(t, w.lastError)

	doc := w.loadDoc(t, w.doc)
	assert.Equal(t, "ChatGPT 销售专用", doc.Packs[0].Title.Target)

	// 命令行片段在内置词典之后注册
	w.run("--no-stats", "--dict", w.fragment, w.doc)
	require.NoError(t, w.lastError)
	doc = w.loadDoc(t, w.doc)
	assert.Equal(t, "ChatGPT 销售", doc.Packs[0].Title.Target)
}

func TestMergeErrors(t *testing.T) {
	w := newWorkspace(t)

	w.run(w.withDicts("--target", "ja", w.doc)...)
	require.Error(t, w.lastError)
	assert.True(t, errors.Is(w.lastError, lookup.ErrLanguageMismatch))

	w.run("--target", "ja", w.doc)
	require.Error(t, w.lastError)
	assert.Contains(t, w.lastError.Error(), "--no-builtin")

	w.run(w.withDicts("--source", "zh", w.doc)...)
	require.Error(t, w.lastError)

	w.run(w.withDicts("--dict", filepath.Join(w.dir, "missing.toml"), w.doc)...)
	require.Error(t, w.lastError)

	bad := filepath.Join(w.dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`[{"title": 3, "slug": "a", "summary": "s", "sections": []}]`), 0644))
	w.run(w.withDicts(bad)...)
	require.Error(t, w.lastError)
	assert.True(t, errors.Is(w.lastError, packdoc.ErrMalformedInput))
	assert.Contains(t, w.lastError.Error(), "[0].title")

	w.run()
	assert.Error(t, w.lastError)
}

func TestStatus(t *testing.T) {
	w := newWorkspace(t)

	out := w.run(w.withDicts("status", w.doc)...)
	require.NoError(t, w.lastError)
	assert.Contains(t, out, "ChatGPT 销售 (use-cases-sales)")
	assert.Contains(t, out, "Outreach")
	assert.Contains(t, out, "2/7")
	assert.Contains(t, out, "5 field(s) are not exact matches.")

	w.run(w.withDicts("status", "--strict", w.doc)...)
	require.Error(t, w.lastError)
	assert.Contains(t, w.lastError.Error(), "5 field(s)")

	original, err := os.ReadFile(w.doc)
	require.NoError(t, err)
	assert.Equal(t, testDoc, string(original), "status must not write the document")
}

func TestCheck(t *testing.T) {
	w := newWorkspace(t)
	doc := filepath.Join(w.dir, "check.json")
	require.NoError(t, os.WriteFile(doc, []byte(`[
  {
    "title": "ChatGPT for sales",
    "slug": "s",
    "summary": "",
    "sections": [
      {"prompts": [{"useCase": "Research a prospect!", "prompt": "Ask [company name] about [budget]."}]}
    ]
  }
]`), 0644))

	out := w.run(w.withDicts("check", doc)...)
	require.NoError(t, w.lastError)
	assert.Contains(t, out, "Unmatched fields (2)")
	assert.Contains(t, out, "untranslated [0].sections[0].prompts[0].useCase")
	assert.Contains(t, out, `did you mean (distance 1): "Research a prospect"`)
	assert.Contains(t, out, "placeholders without mapping: [budget]")
	assert.NotContains(t, out, "[0].title")
}

func TestDict(t *testing.T) {
	w := newWorkspace(t)

	out := w.run(w.withDicts("dict")...)
	require.NoError(t, w.lastError)
	assert.Contains(t, out, "extra@1")
	assert.Contains(t, out, "extra-placeholders@1")
	assert.Contains(t, out, "No overridden keys.")

	out = w.run("dict", "--dict", w.fragment)
	require.NoError(t, w.lastError)
	assert.Contains(t, out, "titles@1")
	assert.Contains(t, out, "Overridden keys (1, last registered wins)")
}

func TestStats(t *testing.T) {
	w := newWorkspace(t)

	out := w.run("stats")
	require.NoError(t, w.lastError)
	assert.Contains(t, out, "No recent runs found.")

	w.run(w.withDicts("--dry-run", w.doc)...)
	require.NoError(t, w.lastError)

	out = w.run("stats", "--recent", "5")
	require.NoError(t, w.lastError)
	assert.Contains(t, out, "Total Runs")
	assert.Contains(t, out, "en → zh")
	assert.Contains(t, out, "Run ID")
	assert.Contains(t, out, w.stats)

	w.stdin = "n\n"
	out = w.run("stats", "--reset")
	require.NoError(t, w.lastError)
	assert.Contains(t, out, "Statistics reset cancelled.")

	out = w.run("stats", "--reset", "--yes")
	require.NoError(t, w.lastError)
	assert.Contains(t, out, "Statistics have been reset.")

	out = w.run("stats")
	require.NoError(t, w.lastError)
	assert.Contains(t, out, "No recent runs found.")
}

func TestVersion(t *testing.T) {
	w := newWorkspace(t)
	out := w.run("--version")
	require.NoError(t, w.lastError)
	assert.Contains(t, out, "test (commit none, built unknown)")
}
