package validation

import (
	"bytes"
	"strings"
	"testing"
)

// pngBytes 构造一个带合法 PNG 签名的最小内容.
func pngBytes(pad int) []byte {
	data := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	return append(data, bytes.Repeat([]byte{0x00}, pad)...)
}

// TestValidateAcceptsCleanPNG 合法 PNG 应通过全部检查并产出净化结果.
func TestValidateAcceptsCleanPNG(t *testing.T) {
	v := New()

	res := v.Validate(pngBytes(16), "photo.png", "image/png")
	if !res.Accepted {
		t.Fatalf("expected accepted, got errors: %v", res.Errors)
	}

	if res.Sanitized == nil {
		t.Fatal("expected sanitized output")
	}

	if res.Sanitized.ContentType != "image/png" {
		t.Errorf("content type = %q, want image/png", res.Sanitized.ContentType)
	}

	if res.Sanitized.Extension != ".png" {
		t.Errorf("extension = %q, want .png", res.Sanitized.Extension)
	}

	if len(res.Sanitized.Checksum) != 64 {
		t.Errorf("checksum length = %d, want 64 hex chars", len(res.Sanitized.Checksum))
	}
}

// TestValidateEmptyContent 空内容必须短路拒绝.
func TestValidateEmptyContent(t *testing.T) {
	v := New()

	res := v.Validate(nil, "a.txt", "")
	if res.Accepted {
		t.Fatal("empty content must be rejected")
	}

	if len(res.Errors) != 1 {
		t.Errorf("expected single short-circuit error, got %v", res.Errors)
	}
}

// TestValidateOversize 超过大小上限必须短路拒绝.
func TestValidateOversize(t *testing.T) {
	v := New(WithMaxSize(8))

	res := v.Validate(pngBytes(16), "a.png", "")
	if res.Accepted {
		t.Fatal("oversize content must be rejected")
	}
}

// TestValidatePathTraversalNames 路径穿越与非法字符文件名一律拒绝.
func TestValidatePathTraversalNames(t *testing.T) {
	v := New()

	names := []string{
		"../../etc/passwd.txt",
		"dir/inner.png",
		`dir\inner.png`,
		"bad<name>.pdf",
		"bad\x00name.txt",
	}

	for _, name := range names {
		res := v.Validate([]byte("hello"), name, "")
		if res.Accepted {
			t.Errorf("name %q must be rejected", name)
		}
	}
}

// TestValidateDisallowedExtension 白名单之外的扩展名拒绝，且不影响其它检查继续执行.
func TestValidateDisallowedExtension(t *testing.T) {
	v := New()

	res := v.Validate([]byte("MZ\x90\x00 fake"), "tool.exe", "")
	if res.Accepted {
		t.Fatal(".exe must be rejected")
	}

	// 扩展名错误与可执行签名错误应同时累积
	var extErr, execErr bool

	for _, e := range res.Errors {
		if strings.Contains(e, "not allowed") {
			extErr = true
		}

		if strings.Contains(e, "executable") {
			execErr = true
		}
	}

	if !extErr || !execErr {
		t.Errorf("expected accumulated extension and executable errors, got %v", res.Errors)
	}
}

// TestValidateSignatureSpoof MZ 头伪装成 PNG 必须拒绝（签名矛盾 + 可执行检测）.
func TestValidateSignatureSpoof(t *testing.T) {
	v := New()

	res := v.Validate([]byte("MZ\x90\x00\x03\x00\x00\x00"), "innocent.png", "image/png")
	if res.Accepted {
		t.Fatal("executable disguised as png must be rejected")
	}
}

// TestValidateScriptMarker 文本文件中的脚本注入标记必须拒绝.
func TestValidateScriptMarker(t *testing.T) {
	v := New()

	res := v.Validate([]byte("hello <SCRIPT>alert(1)</script> world"), "note.txt", "text/plain")
	if res.Accepted {
		t.Fatal("script marker must be rejected")
	}
}

// TestValidateShebangScript shebang 开头的内容视为可执行.
func TestValidateShebangScript(t *testing.T) {
	v := New()

	res := v.Validate([]byte("#!/bin/sh\nrm -rf /\n"), "install.txt", "")
	if res.Accepted {
		t.Fatal("shebang content must be rejected")
	}
}

// TestValidatePDFSanity 声明为 pdf 但缺少 %PDF 头必须拒绝.
func TestValidatePDFSanity(t *testing.T) {
	v := New()

	res := v.Validate([]byte("not a real pdf"), "doc.pdf", "application/pdf")
	if res.Accepted {
		t.Fatal("pdf without %PDF marker must be rejected")
	}
}

// TestValidateTextWithNUL 文本文件含 NUL 字节判为二进制内容.
func TestValidateTextWithNUL(t *testing.T) {
	v := New()

	res := v.Validate([]byte("abc\x00def"), "data.csv", "")
	if res.Accepted {
		t.Fatal("text with NUL bytes must be rejected")
	}
}

// TestValidateZipContainerNotContradiction docx 的 ZIP 头不应判为签名矛盾.
func TestValidateZipContainerNotContradiction(t *testing.T) {
	v := New()

	data := append([]byte("PK\x03\x04"), bytes.Repeat([]byte{0x01}, 32)...)

	res := v.Validate(data, "report.docx", "")
	if !res.Accepted {
		t.Fatalf("zip-based docx should pass, got errors: %v", res.Errors)
	}
}

// TestValidateDeclaredTypeMismatchWarns 声明类型与规范类型不同但签名一致时仅告警.
func TestValidateDeclaredTypeMismatchWarns(t *testing.T) {
	v := New()

	res := v.Validate(pngBytes(4), "pic.png", "application/octet-stream")
	if !res.Accepted {
		t.Fatalf("expected accepted with warning, got errors: %v", res.Errors)
	}

	if len(res.Warnings) == 0 {
		t.Error("expected declared type mismatch warning")
	}
}

// TestValidateDeterministic 同一输入重复校验必须得到相同结果.
func TestValidateDeterministic(t *testing.T) {
	v := New()

	data := []byte("MZ fake ../ bad")

	first := v.Validate(data, "../evil.exe", "")
	second := v.Validate(data, "../evil.exe", "")

	if first.Accepted != second.Accepted || len(first.Errors) != len(second.Errors) {
		t.Errorf("validation not deterministic: %v vs %v", first.Errors, second.Errors)
	}
}

// TestValidateChecksumStable 校验和只取决于内容，与文件名无关.
func TestValidateChecksumStable(t *testing.T) {
	v := New()

	a := v.Validate(pngBytes(8), "a.png", "")
	b := v.Validate(pngBytes(8), "b.png", "")

	if !a.Accepted || !b.Accepted {
		t.Fatal("expected both accepted")
	}

	if a.Sanitized.Checksum != b.Sanitized.Checksum {
		t.Error("checksum must depend on content only")
	}
}

// TestSanitizeDisplayName 展示名清洗：剥离路径、替换非法字符.
func TestSanitizeDisplayName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"photo.png", "photo.png"},
		{"/tmp/photo.png", "photo.png"},
		{`C:\Users\me\photo.png`, "photo.png"},
		{"a<b>c.txt", "a_b_c.txt"},
		{"   ", "file"},
	}

	for _, c := range cases {
		if got := SanitizeDisplayName(c.in); got != c.want {
			t.Errorf("SanitizeDisplayName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

// TestWithAllowedExtensions 子集白名单之外的内置扩展名也应被拒绝.
func TestWithAllowedExtensions(t *testing.T) {
	v := New(WithAllowedExtensions([]string{"png", ".pdf"}))

	if res := v.Validate(pngBytes(4), "a.png", ""); !res.Accepted {
		t.Fatalf("png should be allowed, got %v", res.Errors)
	}

	if res := v.Validate([]byte("plain text"), "a.txt", ""); res.Accepted {
		t.Fatal("txt outside configured subset must be rejected")
	}
}
