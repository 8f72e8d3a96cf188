package validation

import "bytes"

// signature 二进制签名（magic number）条目.
type signature struct {
	prefix      []byte // 文件起始字节
	contentType string // 嗅探得到的类型
}

// signatures 已知格式的签名表，按前缀长度从长到短排列，避免短前缀抢先命中.
// ZIP 容器（docx/xlsx 共用 PK 头）在嗅探阶段只能识别到容器类型，
// 具体区分交由扩展名交叉校验完成.
var signatures = []signature{
	{[]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, "image/png"},
	{[]byte("GIF89a"), "image/gif"},
	{[]byte("GIF87a"), "image/gif"},
	{[]byte("%PDF-"), "application/pdf"},
	{[]byte{0xFF, 0xD8, 0xFF}, "image/jpeg"},
	{[]byte{0xD0, 0xCF, 0x11, 0xE0}, "application/msword"}, // OLE2 复合文档（doc/xls）
	{[]byte("PK\x03\x04"), "application/zip"},              // ZIP 容器（docx/xlsx 等）
}

// zipBasedTypes ZIP 容器可承载的 Office 类型，嗅探到 ZIP 时不与这些类型判为矛盾.
var zipBasedTypes = map[string]bool{
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":       true,
	"application/zip": true,
}

// oleBasedTypes OLE2 复合文档可承载的 Office 类型.
var oleBasedTypes = map[string]bool{
	"application/msword": true,
}

// SniffContentType 根据起始字节嗅探内容类型.未知格式返回空串.
func SniffContentType(data []byte) string {
	for _, sig := range signatures {
		if len(data) >= len(sig.prefix) && bytes.HasPrefix(data, sig.prefix) {
			return sig.contentType
		}
	}

	return ""
}

// signatureContradicts 判断嗅探类型与扩展名期望类型是否矛盾.
// 容器格式（ZIP/OLE2）承载多种 Office 类型，不视为矛盾.
func signatureContradicts(sniffed, expected string) bool {
	if sniffed == "" || expected == "" {
		return false
	}

	if sniffed == expected {
		return false
	}

	if sniffed == "application/zip" && zipBasedTypes[expected] {
		return false
	}

	if sniffed == "application/msword" && oleBasedTypes[expected] {
		return false
	}

	return true
}
