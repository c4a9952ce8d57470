package protocol

import "strings"

// MySQL 排序规则编号（列定义中的 character_set 字段）
// 参考: https://dev.mysql.com/doc/refman/8.0/en/charset-charsets.html
const (
	CHARSET_BIG5_CHINESE_CI        = 1
	CHARSET_LATIN2_CZECH_CS        = 2
	CHARSET_LATIN1_SWEDISH_CI      = 8
	CHARSET_ASCII_GENERAL_CI       = 11
	CHARSET_UJIS_JAPANESE_CI       = 12
	CHARSET_SJIS_JAPANESE_CI       = 13
	CHARSET_EUCKR_KOREAN_CI        = 19
	CHARSET_LATIN7_ESTONIAN_CS     = 20
	CHARSET_GB2312_CHINESE_CI      = 24
	CHARSET_GBK_CHINESE_CI         = 28
	CHARSET_UTF8_GENERAL_CI        = 33
	CHARSET_UTF8MB4_GENERAL_CI     = 45
	CHARSET_UTF8MB4_BIN            = 46
	CHARSET_LATIN1_BIN             = 47
	CHARSET_LATIN1_GENERAL_CI      = 48
	CHARSET_LATIN1_GENERAL_CS      = 49
	CHARSET_BINARY                 = 63
	CHARSET_ASCII_BIN              = 65
	CHARSET_UTF8_BIN               = 83
	CHARSET_BIG5_BIN               = 84
	CHARSET_GBK_BIN                = 87
	CHARSET_UTF8MB4_UNICODE_CI     = 224
	CHARSET_UTF8MB4_UNICODE_520_CI = 246
	CHARSET_GB18030_CHINESE_CI     = 248
	CHARSET_UTF8MB4_0900_AI_CI     = 255 // MySQL 8.0 默认
	CHARSET_UTF8MB4_0900_AS_CS     = 278
	CHARSET_UTF8MB4_0900_BIN       = 309
)

// 常用字符集别名
const (
	CHARSET_UTF8    = CHARSET_UTF8_GENERAL_CI
	CHARSET_UTF8MB4 = CHARSET_UTF8MB4_GENERAL_CI
	CHARSET_LATIN1  = CHARSET_LATIN1_SWEDISH_CI
	CHARSET_DEFAULT = CHARSET_UTF8MB4_0900_AI_CI
)

var collationNames = map[uint16]string{
	CHARSET_BIG5_CHINESE_CI:        "big5_chinese_ci",
	CHARSET_LATIN2_CZECH_CS:        "latin2_czech_cs",
	CHARSET_LATIN1_SWEDISH_CI:      "latin1_swedish_ci",
	CHARSET_ASCII_GENERAL_CI:       "ascii_general_ci",
	CHARSET_UJIS_JAPANESE_CI:       "ujis_japanese_ci",
	CHARSET_SJIS_JAPANESE_CI:       "sjis_japanese_ci",
	CHARSET_EUCKR_KOREAN_CI:        "euckr_korean_ci",
	CHARSET_LATIN7_ESTONIAN_CS:     "latin7_estonian_cs",
	CHARSET_GB2312_CHINESE_CI:      "gb2312_chinese_ci",
	CHARSET_GBK_CHINESE_CI:         "gbk_chinese_ci",
	CHARSET_UTF8_GENERAL_CI:        "utf8_general_ci",
	CHARSET_UTF8MB4_GENERAL_CI:     "utf8mb4_general_ci",
	CHARSET_UTF8MB4_BIN:            "utf8mb4_bin",
	CHARSET_LATIN1_BIN:             "latin1_bin",
	CHARSET_LATIN1_GENERAL_CI:      "latin1_general_ci",
	CHARSET_LATIN1_GENERAL_CS:      "latin1_general_cs",
	CHARSET_BINARY:                 "binary",
	CHARSET_ASCII_BIN:              "ascii_bin",
	CHARSET_UTF8_BIN:               "utf8_bin",
	CHARSET_BIG5_BIN:               "big5_bin",
	CHARSET_GBK_BIN:                "gbk_bin",
	CHARSET_UTF8MB4_UNICODE_CI:     "utf8mb4_unicode_ci",
	CHARSET_UTF8MB4_UNICODE_520_CI: "utf8mb4_unicode_520_ci",
	CHARSET_GB18030_CHINESE_CI:     "gb18030_chinese_ci",
	CHARSET_UTF8MB4_0900_AI_CI:     "utf8mb4_0900_ai_ci",
	CHARSET_UTF8MB4_0900_AS_CS:     "utf8mb4_0900_as_cs",
	CHARSET_UTF8MB4_0900_BIN:       "utf8mb4_0900_bin",
}

// GetCharsetName 根据排序规则编号获取名称，未知编号返回空串
func GetCharsetName(charsetID uint16) string {
	return collationNames[charsetID]
}

// GetCharsetID 根据排序规则名称获取编号，名称不区分大小写，未知名称返回 0
func GetCharsetID(charsetName string) uint16 {
	name := strings.ToLower(charsetName)
	for id, n := range collationNames {
		if n == name {
			return id
		}
	}
	return 0
}

// IsCaseSensitiveCollation 判断排序规则是否区分大小写（binary、*_bin、*_cs）
func IsCaseSensitiveCollation(charsetID uint16) bool {
	name, ok := collationNames[charsetID]
	if !ok {
		return false
	}
	return name == "binary" || strings.HasSuffix(name, "_bin") || strings.HasSuffix(name, "_cs")
}
