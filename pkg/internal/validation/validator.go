// Package validation 实现上传内容的多级校验管线.
//
// 管线按固定顺序执行：结构检查 -> 大小检查 -> 文件名清洗 -> 扩展名白名单 ->
// 三源类型交叉校验（签名嗅探/扩展名映射/调用方声明）-> 按类型结构抽查 ->
// 启发式安全扫描 -> SHA-256 校验和.前两步失败立即短路，其余步骤的错误
// 累积返回，任一检查失败即整体拒绝.
//
// 校验是纯函数行为：除读取输入缓冲外没有任何 I/O 副作用，
// 同一输入重复校验得到相同的错误集合.
package validation

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	// DefaultMaxFileSize 默认单文件大小上限（10 MiB）.
	DefaultMaxFileSize = 10 << 20
	// MaxNameLength 声明文件名最大长度.
	MaxNameLength = 255
)

// forbiddenNameChars 文件名中禁止出现的字符（不含路径分隔符，单独检查）.
const forbiddenNameChars = `<>:"|?*`

// Sanitized 校验通过后产出的净化结果.
type Sanitized struct {
	// DisplayName 仅用于展示的清洗文件名，不参与磁盘命名
	DisplayName string `json:"display_name"`
	// Extension 小写扩展名（含点）
	Extension string `json:"extension"`
	// ContentType 最终判定的规范内容类型
	ContentType string `json:"content_type"`
	// Checksum 全量内容的 SHA-256（hex）
	Checksum string `json:"checksum"`
}

// Result 单个文件的校验结果.Errors 非空时 Accepted 必为 false.
type Result struct {
	Accepted  bool       `json:"accepted"`
	Errors    []string   `json:"errors,omitempty"`
	Warnings  []string   `json:"warnings,omitempty"`
	Sanitized *Sanitized `json:"sanitized,omitempty"`
}

// Validator 无状态内容校验器.
type Validator struct {
	maxSize int64
	allowed map[string]string // 扩展名 -> 期望类型，为空时使用内置白名单
}

// Option 校验器可选配置.
type Option func(*Validator)

// WithMaxSize 覆盖单文件大小上限.
func WithMaxSize(n int64) Option {
	return func(v *Validator) {
		if n > 0 {
			v.maxSize = n
		}
	}
}

// WithAllowedExtensions 限定允许的扩展名子集（必须是内置白名单的子集，
// 传入未知扩展名会被忽略）.
func WithAllowedExtensions(exts []string) Option {
	return func(v *Validator) {
		if len(exts) == 0 {
			return
		}

		allowed := make(map[string]string, len(exts))

		for _, ext := range exts {
			ext = strings.ToLower(strings.TrimSpace(ext))
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}

			if t, ok := TypeByExtension(ext); ok {
				allowed[ext] = t
			}
		}

		if len(allowed) > 0 {
			v.allowed = allowed
		}
	}
}

// New 创建校验器.
func New(opts ...Option) *Validator {
	v := &Validator{
		maxSize: DefaultMaxFileSize,
		allowed: extensionTypes,
	}

	for _, opt := range opts {
		opt(v)
	}

	return v
}

// Validate 对候选文件执行完整校验管线.
func (v *Validator) Validate(data []byte, declaredName, declaredType string) *Result {
	res := &Result{}

	// 1. 结构检查：空输入永远无效，不存在"合法的空文件"
	if len(data) == 0 {
		return reject(res, "file content is empty")
	}

	if strings.TrimSpace(declaredName) == "" {
		return reject(res, "file name is required")
	}

	// 2. 大小检查
	if int64(len(data)) > v.maxSize {
		return reject(res, fmt.Sprintf("file size %d exceeds limit %d", len(data), v.maxSize))
	}

	// 3-7. 独立检查累积错误，任一失败整体拒绝
	nameErrs := checkName(declaredName)
	res.Errors = append(res.Errors, nameErrs...)

	ext := NormalizeExtension(declaredName)

	expectedType, extAllowed := v.allowedType(ext)
	if ext == "" {
		res.Errors = append(res.Errors, "file has no extension")
	} else if !extAllowed {
		res.Errors = append(res.Errors, fmt.Sprintf("extension %q is not allowed", ext))
	}

	// 5. 三源交叉校验：签名嗅探 vs 扩展名期望 vs 调用方声明
	sniffed := SniffContentType(data)
	if extAllowed {
		if signatureContradicts(sniffed, expectedType) {
			res.Errors = append(res.Errors,
				fmt.Sprintf("content signature %q contradicts expected type %q for %s", sniffed, expectedType, ext))
		}

		if declaredType != "" && declaredType != expectedType && !signatureContradicts(sniffed, expectedType) {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("declared type %q differs from canonical type %q", declaredType, expectedType))
		}

		// 6. 按类型浅层结构抽查
		sanityErrs, sanityWarns := checkContentSanity(data, ext)
		res.Errors = append(res.Errors, sanityErrs...)
		res.Warnings = append(res.Warnings, sanityWarns...)
	}

	// 7. 启发式安全扫描
	if desc := DetectExecutable(data); desc != "" {
		res.Errors = append(res.Errors, fmt.Sprintf("executable content detected: %s", desc))
	}

	if marker := DetectScriptMarker(data); marker != "" {
		res.Errors = append(res.Errors, fmt.Sprintf("script injection marker detected: %q", marker))
	}

	if len(res.Errors) > 0 {
		return res
	}

	// 8. 校验和：同时作为存储层写入校验的依据
	sum := sha256.Sum256(data)

	res.Accepted = true
	res.Sanitized = &Sanitized{
		DisplayName: SanitizeDisplayName(declaredName),
		Extension:   ext,
		ContentType: expectedType,
		Checksum:    hex.EncodeToString(sum[:]),
	}

	return res
}

// allowedType 查询扩展名在当前白名单下的期望类型.
func (v *Validator) allowedType(ext string) (string, bool) {
	t, ok := v.allowed[ext]
	return t, ok
}

// checkName 校验声明文件名的安全性，返回错误描述列表.
func checkName(name string) []string {
	var errs []string

	if len(name) > MaxNameLength {
		errs = append(errs, fmt.Sprintf("file name exceeds %d characters", MaxNameLength))
	}

	if strings.Contains(name, "..") {
		errs = append(errs, "file name contains path traversal sequence")
	}

	if strings.ContainsAny(name, `/\`) {
		errs = append(errs, "file name contains path separator")
	}

	if strings.ContainsAny(name, forbiddenNameChars) {
		errs = append(errs, "file name contains forbidden characters")
	}

	for _, r := range name {
		if r < 0x20 {
			errs = append(errs, "file name contains control characters")
			break
		}
	}

	return errs
}

// SanitizeDisplayName 生成仅用于展示的净化文件名：剥离路径成分，
// 替换禁止字符为下划线.这是展示层的防御，不能替代存储层的随机命名.
func SanitizeDisplayName(name string) string {
	// 剥离 Unix/Windows 两种路径分隔符
	if idx := strings.LastIndexAny(name, `/\`); idx >= 0 {
		name = name[idx+1:]
	}

	var b strings.Builder

	b.Grow(len(name))

	for _, r := range name {
		if r < 0x20 || strings.ContainsRune(forbiddenNameChars, r) {
			b.WriteRune('_')
			continue
		}

		b.WriteRune(r)
	}

	cleaned := strings.TrimSpace(b.String())
	if cleaned == "" || cleaned == "." {
		return "file"
	}

	if len(cleaned) > MaxNameLength {
		cleaned = cleaned[:MaxNameLength]
	}

	return cleaned
}

// reject 标记短路拒绝.
func reject(res *Result, msg string) *Result {
	res.Accepted = false
	res.Errors = append(res.Errors, msg)

	return res
}
