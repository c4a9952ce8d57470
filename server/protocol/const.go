package protocol

const (
	// EOF / OK / ERR 包头
	OK_PACKET  = 0x00
	EOF_PACKET = 0xfe
	ERR_PACKET = 0xff
)

// 客户端能力标志
const (
	CLIENT_PROTOCOL_41   = 1 << 9
	CLIENT_DEPRECATE_EOF = 1 << 24
)

// MariaDB 扩展能力标志（握手包中的 MariaDBCaps 字段）
const (
	MARIADB_CLIENT_EXTENDED_METADATA = 1 << 3
)

// 列类型
const (
	MYSQL_TYPE_DECIMAL     = 0x00
	MYSQL_TYPE_TINY        = 0x01
	MYSQL_TYPE_SHORT       = 0x02
	MYSQL_TYPE_LONG        = 0x03
	MYSQL_TYPE_FLOAT       = 0x04
	MYSQL_TYPE_DOUBLE      = 0x05
	MYSQL_TYPE_NULL        = 0x06
	MYSQL_TYPE_TIMESTAMP   = 0x07
	MYSQL_TYPE_LONGLONG    = 0x08
	MYSQL_TYPE_INT24       = 0x09
	MYSQL_TYPE_DATE        = 0x0a
	MYSQL_TYPE_TIME        = 0x0b
	MYSQL_TYPE_DATETIME    = 0x0c
	MYSQL_TYPE_YEAR        = 0x0d
	MYSQL_TYPE_NEWDATE     = 0x0e
	MYSQL_TYPE_VARCHAR     = 0x0f
	MYSQL_TYPE_BIT         = 0x10
	MYSQL_TYPE_JSON        = 0xf5
	MYSQL_TYPE_NEWDECIMAL  = 0xf6
	MYSQL_TYPE_ENUM        = 0xf7
	MYSQL_TYPE_SET         = 0xf8
	MYSQL_TYPE_TINY_BLOB   = 0xf9
	MYSQL_TYPE_MEDIUM_BLOB = 0xfa
	MYSQL_TYPE_LONG_BLOB   = 0xfb
	MYSQL_TYPE_BLOB        = 0xfc
	MYSQL_TYPE_VAR_STRING  = 0xfd
	MYSQL_TYPE_STRING      = 0xfe
	MYSQL_TYPE_GEOMETRY    = 0xff
)

// 字段标志常量
const (
	NOT_NULL_FLAG         = 1 << 0
	PRI_KEY_FLAG          = 1 << 1
	UNIQUE_KEY_FLAG       = 1 << 2
	MULTIPLE_KEY_FLAG     = 1 << 3
	BLOB_FLAG             = 1 << 4
	UNSIGNED_FLAG         = 1 << 5
	ZEROFILL_FLAG         = 1 << 6
	BINARY_COLLATION_FLAG = 1 << 7
	ENUM_FLAG             = 1 << 8
	AUTO_INCREMENT_FLAG   = 1 << 9
	TIMESTAMP_FLAG        = 1 << 10
	SET_FLAG              = 1 << 11
	NO_DEFAULT_VALUE_FLAG = 1 << 12
	ON_UPDATE_NOW_FLAG    = 1 << 13
	NUM_FLAG              = 1 << 15
)

var typeNames = map[uint8]string{
	MYSQL_TYPE_DECIMAL:     "DECIMAL",
	MYSQL_TYPE_TINY:        "TINYINT",
	MYSQL_TYPE_SHORT:       "SMALLINT",
	MYSQL_TYPE_LONG:        "INT",
	MYSQL_TYPE_FLOAT:       "FLOAT",
	MYSQL_TYPE_DOUBLE:      "DOUBLE",
	MYSQL_TYPE_NULL:        "NULL",
	MYSQL_TYPE_TIMESTAMP:   "TIMESTAMP",
	MYSQL_TYPE_LONGLONG:    "BIGINT",
	MYSQL_TYPE_INT24:       "MEDIUMINT",
	MYSQL_TYPE_DATE:        "DATE",
	MYSQL_TYPE_TIME:        "TIME",
	MYSQL_TYPE_DATETIME:    "DATETIME",
	MYSQL_TYPE_YEAR:        "YEAR",
	MYSQL_TYPE_NEWDATE:     "DATE",
	MYSQL_TYPE_VARCHAR:     "VARCHAR",
	MYSQL_TYPE_BIT:         "BIT",
	MYSQL_TYPE_JSON:        "JSON",
	MYSQL_TYPE_NEWDECIMAL:  "DECIMAL",
	MYSQL_TYPE_ENUM:        "ENUM",
	MYSQL_TYPE_SET:         "SET",
	MYSQL_TYPE_TINY_BLOB:   "TINYBLOB",
	MYSQL_TYPE_MEDIUM_BLOB: "MEDIUMBLOB",
	MYSQL_TYPE_LONG_BLOB:   "LONGBLOB",
	MYSQL_TYPE_BLOB:        "BLOB",
	MYSQL_TYPE_VAR_STRING:  "VARCHAR",
	MYSQL_TYPE_STRING:      "CHAR",
	MYSQL_TYPE_GEOMETRY:    "GEOMETRY",
}

// GetTypeName 根据列类型编号获取类型名称
func GetTypeName(columnType uint8) string {
	if name, ok := typeNames[columnType]; ok {
		return name
	}
	return "UNKNOWN"
}
