package crawler

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/mkbk-with-circle/PKU-Schedule-Planner/internal/model"
)

// ── 门户页面解析 ──
//
// 课程数据在 class="datagrid" 的表格里，数据行 class 为
// datagrid-even / datagrid-odd，固定 14 列，列序与 model.FieldOrder 一致。

var (
	rowClassRe   = regexp.MustCompile(`datagrid-(even|odd)`)
	totalPagesRe = regexp.MustCompile(`Page\s*\d+\s*of\s*(\d+)`)
	blankRunRe   = regexp.MustCompile(`\n{2,}`)
	spaceEdgeRe  = regexp.MustCompile(`[ \t]+\n|\n[ \t]+`)
	examSplitRe  = regexp.MustCompile(`([^\n])(考试时间：)`)
)

// page 一页门户数据的解析结果
type page struct {
	rows       []model.RawRow
	totalPages int
	// firstCourseID 本页首行课程号，用于发现翻页失效
	firstCourseID string
}

func parsePage(content string) (*page, error) {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return nil, err
	}

	p := &page{totalPages: 1}

	if m := totalPagesRe.FindStringSubmatch(allText(doc)); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			p.totalPages = n
		}
	}

	table := findByClass(doc, "table", "datagrid")
	if table == nil {
		return p, nil
	}

	for _, tr := range findAll(table, "tr") {
		if !rowClassRe.MatchString(attr(tr, "class")) {
			continue
		}
		cols := findAll(tr, "td")
		if len(cols) < len(model.FieldOrder) {
			continue
		}
		row := make(model.RawRow, len(model.FieldOrder))
		for i, field := range model.FieldOrder {
			row[field] = cellText(cols[i])
		}
		if p.firstCourseID == "" {
			p.firstCourseID = row[model.FieldCourseCode]
		}
		p.rows = append(p.rows, row)
	}
	return p, nil
}

// cellText 提取单元格文本，保留 <br>/子节点间的结构性换行。
// 意愿值/预选列是 input，直接取其 value。
func cellText(td *html.Node) string {
	if inp := findAll(td, "input"); len(inp) > 0 {
		if v, ok := lookupAttr(inp[0], "value"); ok {
			return strings.TrimSpace(v)
		}
	}

	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(td)
	text := strings.Join(parts, "\n")

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = blankRunRe.ReplaceAllString(text, "\n")
	text = spaceEdgeRe.ReplaceAllString(text, "\n")
	// “考试时间：”若被挤在上一行末尾，强制换行
	text = examSplitRe.ReplaceAllString(text, "$1\n$2")

	return strings.TrimSpace(text)
}

// ── html.Node 遍历辅助 ──

func attr(n *html.Node, key string) string {
	v, _ := lookupAttr(n, key)
	return v
}

func lookupAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func findByClass(root *html.Node, tag, class string) *html.Node {
	var found *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.ElementNode && n.Data == tag {
			for _, cls := range strings.Fields(attr(n, "class")) {
				if cls == class {
					found = n
					return
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return found
}

func findAll(root *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
			return // 不深入嵌套的同名标签
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return out
}

func allText(root *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteString("\n")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return b.String()
}
