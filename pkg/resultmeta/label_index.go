package resultmeta

import (
	"strings"
	"unicode"
)

// labelIndex 列标签（忽略大小写）到列号的映射，列号从 1 开始
type labelIndex map[string]int

// buildLabelIndex 从最后一列向前插入，多个列标签相同时保留最小列号
func buildLabelIndex(md ResultSetMetaData) (labelIndex, error) {
	count, err := md.ColumnCount()
	if err != nil {
		return nil, err
	}

	index := make(labelIndex, count)
	for i := count; i > 0; i-- {
		label, err := md.ColumnLabel(i)
		if err != nil {
			return nil, err
		}
		index[foldLabel(label)] = i
	}
	return index, nil
}

func (l labelIndex) lookup(label string) (int, bool) {
	i, ok := l[foldLabel(label)]
	return i, ok
}

// foldLabel 逐字符先转大写再转小写，不做多字符展开（"ß" 与 "ss" 不相等）
func foldLabel(label string) string {
	return strings.Map(func(r rune) rune {
		return unicode.ToLower(unicode.ToUpper(r))
	}, label)
}
