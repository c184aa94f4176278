package markdown

import (
	"strings"

	"gitlab.com/golang-commonmark/markdown"
)

// 任务描述渲染器：禁用原始 HTML，防止 XSS
var renderer = markdown.New(
	markdown.HTML(false),
	markdown.Linkify(true),
	markdown.Typographer(false),
	markdown.MaxNesting(10),
)

// ToHTML 将 Markdown 文本渲染为 HTML；空文本返回空串
func ToHTML(src string) string {
	if strings.TrimSpace(src) == "" {
		return ""
	}
	return renderer.RenderToString([]byte(src))
}
