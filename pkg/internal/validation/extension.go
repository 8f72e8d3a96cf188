package validation

import (
	"path/filepath"
	"strings"
)

// extensionTypes 扩展名到规范 Content-Type 的静态映射.
// 该表同时充当扩展名白名单：不在表中的扩展名一律拒绝.
// 注意：表内容与已有元数据快照存在互操作约定，修改前需评估兼容性.
var extensionTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".txt":  "text/plain",
	".csv":  "text/csv",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// NormalizeExtension 提取并规范化文件扩展名（小写、含点）.
func NormalizeExtension(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

// TypeByExtension 按扩展名查询规范 Content-Type.
// 第二个返回值表示扩展名是否在白名单内.
func TypeByExtension(ext string) (string, bool) {
	t, ok := extensionTypes[strings.ToLower(ext)]
	return t, ok
}

// AllowedExtensions 返回白名单中的扩展名（无序）.
func AllowedExtensions() []string {
	exts := make([]string, 0, len(extensionTypes))
	for ext := range extensionTypes {
		exts = append(exts, ext)
	}

	return exts
}
