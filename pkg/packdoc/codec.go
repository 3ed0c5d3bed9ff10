package packdoc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/nerdneilsfield/packtrans/internal/fsutil"
	"github.com/tidwall/gjson"
)

// 文档中的固定键名
const (
	keyTitle       = "title"
	keySlug        = "slug"
	keySummary     = "summary"
	keyCoverURL    = "coverUrl"
	keySections    = "sections"
	keyHeading     = "heading"
	keyDescription = "description"
	keyPrompts     = "prompts"
	keyUseCase     = "useCase"
	keyPrompt      = "prompt"
	keyURL         = "url"
)

// Codec 负责文档与 JSON 之间的转换。
// 双语字段在磁盘上是 {SourceKey: 源文本, TargetKey: 目标文本}。
type Codec struct {
	SourceKey string
	TargetKey string
}

// NewCodec 创建使用给定语言键的编解码器
func NewCodec(sourceKey, targetKey string) (*Codec, error) {
	if sourceKey == "" || targetKey == "" {
		return nil, errors.New("source and target language keys must be set")
	}
	if sourceKey == targetKey {
		return nil, fmt.Errorf("source and target language keys are both %q", sourceKey)
	}
	return &Codec{SourceKey: sourceKey, TargetKey: targetKey}, nil
}

// Default 是 en -> zh 的编解码器
var Default = &Codec{SourceKey: "en", TargetKey: "zh"}

// Load 使用默认编解码器读取文档
func Load(path string) (*Document, error) {
	return Default.Load(path)
}

// Save 使用默认编解码器保存文档
func Save(doc *Document, path string) error {
	return Default.Save(doc, path)
}

// Load 读取并解析 path 处的文档
func (c *Codec) Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	return c.Decode(data)
}

// Save 将文档原子地写入 path。编码失败时不会触碰目标文件。
func (c *Codec) Save(doc *Document, path string) error {
	data, err := c.Encode(doc)
	if err != nil {
		return err
	}
	if err := fsutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// Decode 解析 JSON 文档，结构不符时返回 *MalformedInputError
func (c *Codec) Decode(data []byte) (*Document, error) {
	if !gjson.ValidBytes(data) {
		return nil, malformed("", "not valid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, malformed("", "document must be an array of packs, got %s", kindOf(root))
	}

	doc := &Document{Packs: []*Pack{}}
	var err error
	i := 0
	root.ForEach(func(_, value gjson.Result) bool {
		var pack *Pack
		pack, err = c.decodePack(fmt.Sprintf("[%d]", i), value)
		if err != nil {
			return false
		}
		doc.Packs = append(doc.Packs, pack)
		i++
		return true
	})
	if err != nil {
		return nil, err
	}
	// 键名和原样保留的值同样不能含有非法 UTF-8
	if !utf8.Valid(data) {
		return nil, malformed("", "invalid UTF-8")
	}
	return doc, nil
}

func (c *Codec) decodePack(path string, v gjson.Result) (*Pack, error) {
	if !v.IsObject() {
		return nil, malformed(path, "pack must be an object, got %s", kindOf(v))
	}
	pack := &Pack{}
	seen, err := eachMember(path, v, func(key string, val gjson.Result) error {
		var err error
		at := path + "." + key
		switch key {
		case keyTitle:
			pack.Title, err = c.decodeField(at, val)
		case keySlug:
			pack.Slug, err = decodeString(at, val)
		case keySummary:
			pack.Summary, err = c.decodeField(at, val)
		case keyCoverURL:
			pack.CoverURL = json.RawMessage(val.Raw)
		case keySections:
			pack.Sections, err = c.decodeSections(at, val)
		default:
			pack.Extra = append(pack.Extra, Member{Key: key, Value: json.RawMessage(val.Raw)})
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := requireKeys(path, seen, keyTitle, keySlug, keySummary, keySections); err != nil {
		return nil, err
	}
	return pack, nil
}

func (c *Codec) decodeSections(path string, v gjson.Result) ([]*Section, error) {
	if !v.IsArray() {
		return nil, malformed(path, "sections must be an array, got %s", kindOf(v))
	}
	sections := []*Section{}
	var err error
	i := 0
	v.ForEach(func(_, value gjson.Result) bool {
		var section *Section
		section, err = c.decodeSection(fmt.Sprintf("%s[%d]", path, i), value)
		if err != nil {
			return false
		}
		sections = append(sections, section)
		i++
		return true
	})
	if err != nil {
		return nil, err
	}
	return sections, nil
}

func (c *Codec) decodeSection(path string, v gjson.Result) (*Section, error) {
	if !v.IsObject() {
		return nil, malformed(path, "section must be an object, got %s", kindOf(v))
	}
	section := &Section{}
	seen, err := eachMember(path, v, func(key string, val gjson.Result) error {
		var err error
		at := path + "." + key
		switch key {
		case keyHeading:
			section.Heading, err = c.decodeOptionalField(at, val)
			section.NullHeading = val.Type == gjson.Null
		case keyDescription:
			section.Description, err = c.decodeOptionalField(at, val)
			section.NullDescription = val.Type == gjson.Null
		case keyPrompts:
			section.Prompts, err = c.decodePrompts(at, val)
		default:
			section.Extra = append(section.Extra, Member{Key: key, Value: json.RawMessage(val.Raw)})
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := requireKeys(path, seen, keyPrompts); err != nil {
		return nil, err
	}
	return section, nil
}

func (c *Codec) decodePrompts(path string, v gjson.Result) ([]*Prompt, error) {
	if !v.IsArray() {
		return nil, malformed(path, "prompts must be an array, got %s", kindOf(v))
	}
	prompts := []*Prompt{}
	var err error
	i := 0
	v.ForEach(func(_, value gjson.Result) bool {
		var prompt *Prompt
		prompt, err = c.decodePrompt(fmt.Sprintf("%s[%d]", path, i), value)
		if err != nil {
			return false
		}
		prompts = append(prompts, prompt)
		i++
		return true
	})
	if err != nil {
		return nil, err
	}
	return prompts, nil
}

func (c *Codec) decodePrompt(path string, v gjson.Result) (*Prompt, error) {
	if !v.IsObject() {
		return nil, malformed(path, "prompt must be an object, got %s", kindOf(v))
	}
	prompt := &Prompt{}
	seen, err := eachMember(path, v, func(key string, val gjson.Result) error {
		var err error
		at := path + "." + key
		switch key {
		case keyUseCase:
			prompt.UseCase, err = c.decodeField(at, val)
		case keyPrompt:
			prompt.Prompt, err = c.decodeField(at, val)
		case keyURL:
			prompt.URL = json.RawMessage(val.Raw)
		default:
			prompt.Extra = append(prompt.Extra, Member{Key: key, Value: json.RawMessage(val.Raw)})
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := requireKeys(path, seen, keyUseCase, keyPrompt); err != nil {
		return nil, err
	}
	return prompt, nil
}

// decodeField 接受纯字符串（只有源文本）或双语对象
func (c *Codec) decodeField(path string, v gjson.Result) (Field, error) {
	switch {
	case v.Type == gjson.String:
		if !utf8.ValidString(v.Str) {
			return Field{}, malformed(path, "invalid UTF-8")
		}
		return Field{Source: v.Str}, nil
	case v.IsObject():
		var f Field
		seen, err := eachMember(path, v, func(key string, val gjson.Result) error {
			var err error
			switch key {
			case c.SourceKey:
				f.Source, err = decodeString(path+"."+key, val)
			case c.TargetKey:
				if val.Type != gjson.Null {
					f.Target, err = decodeString(path+"."+key, val)
				}
			default:
				f.Extra = append(f.Extra, Member{Key: key, Value: json.RawMessage(val.Raw)})
			}
			return err
		})
		if err != nil {
			return Field{}, err
		}
		if err := requireKeys(path, seen, c.SourceKey); err != nil {
			return Field{}, err
		}
		return f, nil
	default:
		return Field{}, malformed(path, "expected a string or an object with %q, got %s", c.SourceKey, kindOf(v))
	}
}

func (c *Codec) decodeOptionalField(path string, v gjson.Result) (*Field, error) {
	if v.Type == gjson.Null {
		return nil, nil
	}
	f, err := c.decodeField(path, v)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// eachMember 按文档顺序遍历对象成员，重复键视为格式错误
func eachMember(path string, v gjson.Result, fn func(key string, val gjson.Result) error) (map[string]bool, error) {
	seen := make(map[string]bool)
	var err error
	v.ForEach(func(key, val gjson.Result) bool {
		name := key.Str
		if seen[name] {
			err = malformed(path+"."+name, "duplicate key")
			return false
		}
		seen[name] = true
		err = fn(name, val)
		return err == nil
	})
	return seen, err
}

func requireKeys(path string, seen map[string]bool, keys ...string) error {
	for _, key := range keys {
		if !seen[key] {
			return malformed(path, "missing required attribute %q", key)
		}
	}
	return nil
}

func decodeString(path string, v gjson.Result) (string, error) {
	if v.Type != gjson.String {
		return "", malformed(path, "expected a string, got %s", kindOf(v))
	}
	if !utf8.ValidString(v.Str) {
		return "", malformed(path, "invalid UTF-8")
	}
	return v.Str, nil
}

func kindOf(v gjson.Result) string {
	switch v.Type {
	case gjson.Null:
		return "null"
	case gjson.False, gjson.True:
		return "boolean"
	case gjson.Number:
		return "number"
	case gjson.String:
		return "string"
	default:
		if v.IsArray() {
			return "array"
		}
		return "object"
	}
}

// Encode 将文档编码为带两个空格缩进的 JSON。
// 不转义 HTML 字符与非 ASCII 字符，键顺序固定，末尾带换行。
func (c *Codec) Encode(doc *Document) ([]byte, error) {
	packs := make([]object, 0, len(doc.Packs))
	for _, p := range doc.Packs {
		packs = append(packs, c.packObject(p))
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(packs); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return buf.Bytes(), nil
}

func (c *Codec) packObject(p *Pack) object {
	obj := object{
		{keyTitle, c.fieldObject(p.Title)},
		{keySlug, p.Slug},
		{keySummary, c.fieldObject(p.Summary)},
	}
	if p.CoverURL != nil {
		obj = append(obj, member{keyCoverURL, p.CoverURL})
	}
	sections := make([]object, 0, len(p.Sections))
	for _, s := range p.Sections {
		sections = append(sections, c.sectionObject(s))
	}
	obj = append(obj, member{keySections, sections})
	return appendExtra(obj, p.Extra)
}

func (c *Codec) sectionObject(s *Section) object {
	var obj object
	switch {
	case s.Heading != nil:
		obj = append(obj, member{keyHeading, c.fieldObject(*s.Heading)})
	case s.NullHeading:
		obj = append(obj, member{keyHeading, nil})
	}
	switch {
	case s.Description != nil:
		obj = append(obj, member{keyDescription, c.fieldObject(*s.Description)})
	case s.NullDescription:
		obj = append(obj, member{keyDescription, nil})
	}
	prompts := make([]object, 0, len(s.Prompts))
	for _, p := range s.Prompts {
		prompts = append(prompts, c.promptObject(p))
	}
	obj = append(obj, member{keyPrompts, prompts})
	return appendExtra(obj, s.Extra)
}

func (c *Codec) promptObject(p *Prompt) object {
	obj := object{
		{keyUseCase, c.fieldObject(p.UseCase)},
		{keyPrompt, c.fieldObject(p.Prompt)},
	}
	if p.URL != nil {
		obj = append(obj, member{keyURL, p.URL})
	}
	return appendExtra(obj, p.Extra)
}

func (c *Codec) fieldObject(f Field) object {
	obj := object{
		{c.SourceKey, f.Source},
		{c.TargetKey, f.Target},
	}
	return appendExtra(obj, f.Extra)
}

func appendExtra(obj object, extra []Member) object {
	for _, m := range extra {
		obj = append(obj, member{m.Key, m.Value})
	}
	return obj
}

// member/object 是保持键顺序的 JSON 对象
type member struct {
	key   string
	value any
}

type object []member

func (o object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalNoEscape(m.key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := marshalNoEscape(m.value)
		if err != nil {
			return nil, fmt.Errorf("encode %q: %w", m.key, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
