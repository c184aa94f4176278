package markdown

import (
	"strings"
	"testing"
)

func TestToHTML(t *testing.T) {
	out := ToHTML("**bold** text")
	if !strings.Contains(out, "<strong>bold</strong>") {
		t.Errorf("期望渲染加粗，实际: %s", out)
	}
}

func TestToHTML_EscapesRawHTML(t *testing.T) {
	out := ToHTML("<script>alert(1)</script>")
	if strings.Contains(out, "<script>") {
		t.Errorf("原始 HTML 应被转义，实际: %s", out)
	}
}

func TestToHTML_Empty(t *testing.T) {
	if out := ToHTML("   "); out != "" {
		t.Errorf("空文本应返回空串，实际: %q", out)
	}
}
