package packdoc

import (
	"errors"
	"fmt"
)

// ErrMalformedInput 输入文档不符合 Pack/Section/Prompt 结构
var ErrMalformedInput = errors.New("malformed input")

// MalformedInputError 描述输入中出错的位置
type MalformedInputError struct {
	// Path 形如 [2].sections[0].prompts[3].useCase，整个文档出错时为空
	Path   string
	Reason string
}

func (e *MalformedInputError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("malformed input: %s", e.Reason)
	}
	return fmt.Sprintf("malformed input at %s: %s", e.Path, e.Reason)
}

// Is 让 errors.Is(err, ErrMalformedInput) 成立
func (e *MalformedInputError) Is(target error) bool {
	return target == ErrMalformedInput
}

// IOError 是读写文档时的底层错误
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func malformed(path, format string, args ...any) error {
	return &MalformedInputError{Path: path, Reason: fmt.Sprintf(format, args...)}
}
