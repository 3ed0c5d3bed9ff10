// Package dictionaries 内置提示词包的词典片段
package dictionaries

import (
	"embed"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/nerdneilsfield/packtrans/pkg/lookup"
)

//go:embed *.toml
var files embed.FS

const manifestFile = "manifest.toml"

type manifest struct {
	Fragments []string `toml:"fragments"`
}

// Names 返回内置片段文件名，按注册顺序排列
func Names() ([]string, error) {
	data, err := files.ReadFile(manifestFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read builtin manifest: %w", err)
	}
	var m manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse builtin manifest: %w", err)
	}
	return m.Fragments, nil
}

// Fragments 按注册顺序加载全部内置片段
func Fragments() ([]*lookup.Fragment, error) {
	names, err := Names()
	if err != nil {
		return nil, err
	}
	fragments := make([]*lookup.Fragment, 0, len(names))
	for _, name := range names {
		f, err := lookup.LoadFragmentFS(files, name)
		if err != nil {
			return nil, err
		}
		fragments = append(fragments, f)
	}
	return fragments, nil
}
