package validation

import (
	"bytes"
	"strings"
)

const heuristicScanWindow = 1024 // 文本注入标记只检查前 1KB

// executableSignatures 可执行/字节码文件的起始签名.命中即拒绝.
var executableSignatures = []signature{
	{[]byte{0x4D, 0x5A}, "PE executable"},             // Windows PE (MZ)
	{[]byte{0x7F, 0x45, 0x4C, 0x46}, "ELF executable"}, // Linux ELF
	{[]byte{0xCA, 0xFE, 0xBA, 0xBE}, "Java class"},     // JVM 字节码
	{[]byte("#!"), "script shebang"},                   // shell/解释器脚本
}

// scriptMarkers 常见脚本注入标记，均为小写，匹配前统一转小写.
var scriptMarkers = []string{
	"<script",
	"javascript:",
	"onerror=",
	"onload=",
	"eval(",
	"document.cookie",
	"<?php",
}

// DetectExecutable 检查起始字节是否为已知可执行格式.
// 返回签名描述；未命中返回空串.
func DetectExecutable(data []byte) string {
	for _, sig := range executableSignatures {
		if len(data) >= len(sig.prefix) && bytes.HasPrefix(data, sig.prefix) {
			return sig.contentType
		}
	}

	return ""
}

// DetectScriptMarker 在前 1KB 文本中查找脚本注入标记.
// 这是启发式过滤网，不是完整的恶意代码检测.
func DetectScriptMarker(data []byte) string {
	window := data
	if len(window) > heuristicScanWindow {
		window = window[:heuristicScanWindow]
	}

	text := strings.ToLower(string(window))
	for _, marker := range scriptMarkers {
		if strings.Contains(text, marker) {
			return marker
		}
	}

	return ""
}

// checkContentSanity 按声明类型做浅层结构校验.
// 返回错误描述列表（空表示通过）与警告列表.
func checkContentSanity(data []byte, ext string) (errs, warns []string) {
	switch ext {
	case ".pdf":
		if !bytes.HasPrefix(data, []byte("%PDF")) {
			errs = append(errs, "pdf file does not start with %PDF marker")
		}
	case ".txt", ".csv":
		if bytes.IndexByte(data, 0x00) >= 0 {
			errs = append(errs, "text file contains NUL bytes, likely binary content")
		}
	case ".png", ".jpg", ".jpeg", ".gif":
		if SniffContentType(data) == "" {
			warns = append(warns, "image signature not recognized")
		}
	}

	return errs, warns
}
