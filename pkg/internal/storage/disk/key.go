package disk

import (
	"strings"

	"github.com/google/uuid"
)

// NewKey 生成全新的存储键：随机 UUID 加净化后的小写扩展名.
// 键与用户提供的文件名完全无关，杜绝路径注入与信息泄露.
func NewKey(ext string) string {
	return uuid.NewString() + normalizeExt(ext)
}

// ValidateKey 独立校验存储键格式.所有以键访问磁盘的入口都必须先过这里，
// 不信任上游校验.合法键形如 "<uuid>[.ext]"，扩展名只允许小写字母和数字.
func ValidateKey(key string) error {
	if key == "" || len(key) > 128 {
		return ErrInvalidKey
	}

	if strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return ErrInvalidKey
	}

	stem := key

	if idx := strings.IndexByte(key, '.'); idx >= 0 {
		stem = key[:idx]

		ext := key[idx+1:]
		if ext == "" || !isExtChars(ext) {
			return ErrInvalidKey
		}
	}

	if _, err := uuid.Parse(stem); err != nil {
		return ErrInvalidKey
	}

	return nil
}

// normalizeExt 清洗扩展名，剔除任何非字母数字字符.
func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ext == "" || !isExtChars(ext) {
		return ""
	}

	return "." + ext
}

func isExtChars(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}

	return true
}
