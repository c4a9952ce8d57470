package protocol

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
)

// 字符集名到编码，utf8/utf8mb4/ascii/binary 不需要转换
var charsetEncodings = map[string]encoding.Encoding{
	"latin1":  charmap.Windows1252, // MySQL 的 latin1 实际是 cp1252
	"latin2":  charmap.ISO8859_2,
	"latin7":  charmap.ISO8859_13,
	"gb2312":  simplifiedchinese.GBK,
	"gbk":     simplifiedchinese.GBK,
	"gb18030": simplifiedchinese.GB18030,
	"big5":    traditionalchinese.Big5,
	"sjis":    japanese.ShiftJIS,
	"ujis":    japanese.EUCJP,
	"euckr":   korean.EUCKR,
}

// CharsetOf 返回排序规则所属的字符集，未知编号返回空串
func CharsetOf(collationID uint16) string {
	name := GetCharsetName(collationID)
	if i := strings.IndexByte(name, '_'); i > 0 {
		return name[:i]
	}
	return name
}

// DecodeFieldNames 把列定义中的库名、表名、列名从 character_set_results 转成 UTF-8
//
// fields is not modified. Collations whose charset is UTF-8 compatible, and
// unknown collations, return a plain copy.
func DecodeFieldNames(fields []FieldMeta, resultsCollation uint16) ([]FieldMeta, error) {
	decoded := make([]FieldMeta, len(fields))
	copy(decoded, fields)

	charset := CharsetOf(resultsCollation)
	enc, ok := charsetEncodings[charset]
	if !ok {
		return decoded, nil
	}

	decoder := enc.NewDecoder()
	for i := range decoded {
		field := &decoded[i]
		for _, s := range []*string{&field.Schema, &field.Table, &field.OrgTable, &field.Name, &field.OrgName} {
			value, err := decoder.String(*s)
			if err != nil {
				return nil, fmt.Errorf("column %d: decode %s names: %w", i+1, charset, err)
			}
			*s = value
		}
	}
	return decoded, nil
}
