package lookup

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat 无法根据扩展名识别词典文件格式
var ErrUnknownFormat = errors.New("unknown dictionary format")

// fragmentFile 是词典文件在磁盘上的结构，TOML/YAML/JSON 共用
type fragmentFile struct {
	Name         string            `toml:"name" yaml:"name" json:"name"`
	Version      string            `toml:"version" yaml:"version" json:"version"`
	Category     string            `toml:"category" yaml:"category" json:"category"`
	SourceLang   string            `toml:"source_lang" yaml:"source_lang" json:"source_lang"`
	TargetLang   string            `toml:"target_lang" yaml:"target_lang" json:"target_lang"`
	Translations map[string]string `toml:"translations" yaml:"translations" json:"translations"`
}

// Format 是词典文件格式
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// DetectFormat 根据扩展名判断格式
func DetectFormat(name string) (Format, error) {
	switch strings.ToLower(path.Ext(filepath.ToSlash(name))) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, name)
	}
}

// DecodeFragment 解析词典内容。name 为空时使用 fallbackName。
func DecodeFragment(data []byte, format Format, fallbackName string) (*Fragment, error) {
	var file fragmentFile
	var err error
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, &file)
	case FormatYAML:
		err = yaml.Unmarshal(data, &file)
	case FormatJSON:
		err = json.Unmarshal(data, &file)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s dictionary: %w", format, err)
	}

	if file.Name == "" {
		file.Name = fallbackName
	}
	if file.Translations == nil {
		file.Translations = map[string]string{}
	}

	f := &Fragment{
		Name:         file.Name,
		Version:      file.Version,
		Category:     Category(strings.ToLower(file.Category)),
		SourceLang:   file.SourceLang,
		TargetLang:   file.TargetLang,
		Translations: file.Translations,
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// LoadFragmentFile 从磁盘读取词典文件
func LoadFragmentFile(filePath string) (*Fragment, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("dictionary file not found: %s", filePath)
	}
	return loadFragment(os.ReadFile, filePath, filePath)
}

// LoadFragmentFS 从 fs.FS 读取词典文件，用于内置词典
func LoadFragmentFS(fsys fs.FS, name string) (*Fragment, error) {
	return loadFragment(func(n string) ([]byte, error) { return fs.ReadFile(fsys, n) }, name, "builtin:"+name)
}

func loadFragment(read func(string) ([]byte, error), name, origin string) (*Fragment, error) {
	format, err := DetectFormat(name)
	if err != nil {
		return nil, err
	}
	data, err := read(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read dictionary file %s: %w", name, err)
	}

	base := path.Base(filepath.ToSlash(name))
	f, err := DecodeFragment(data, format, strings.TrimSuffix(base, path.Ext(base)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", origin, err)
	}
	f.Origin = origin
	return f, nil
}
