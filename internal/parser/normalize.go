package parser

import (
	"regexp"
	"strings"
)

// ── 文本规范化 ──
//
// 门户导出的“上课考试信息”是自由文本：换行符混用、全角半角标点混用、
// 空白不定。全部文法匹配前先收敛到统一形态。

var (
	spaceRunRe   = regexp.MustCompile(`[ \t]+`)
	blankLinesRe = regexp.MustCompile(`\n{2,}`)
	remarkRe     = regexp.MustCompile(`^\s*备注[:：]\s*`)
	roomTailRe   = regexp.MustCompile(`(机房|内)$`)
	allSpaceRe   = regexp.MustCompile(`\s+`)
	parenSpanRe  = regexp.MustCompile(`[（(].*?[）)]`)
)

// examPrefixes 以这些前缀开头的行是考试安排，不含上课信息，直接跳过
var examPrefixes = []string{"考试时间", "考试方式"}

// NormalizeSpaces 统一换行与标点、折叠空白
func NormalizeSpaces(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, "；", ";")
	s = strings.ReplaceAll(s, "，", ",")
	s = spaceRunRe.ReplaceAllString(s, " ")
	s = blankLinesRe.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}

// SplitInfoLines 规范化后按行切分，丢弃空行
func SplitInfoLines(info string) []string {
	info = NormalizeSpaces(info)
	if info == "" {
		return nil
	}
	var lines []string
	for _, ln := range strings.Split(info, "\n") {
		ln = strings.TrimSpace(ln)
		if ln != "" {
			lines = append(lines, ln)
		}
	}
	return lines
}

// IsExamLine 判断是否为考试安排行（带不带冒号都算）
func IsExamLine(line string) bool {
	line = strings.TrimSpace(line)
	for _, pfx := range examPrefixes {
		if strings.HasPrefix(line, pfx) {
			return true
		}
	}
	return false
}

// stripWrappingParens 剥掉一层包裹括号与可选的“备注：”前缀。
// 钟点制行常整体写在括号里。
func stripWrappingParens(line string) string {
	s := strings.TrimSpace(line)
	s = strings.TrimLeft(s, "（(")
	s = strings.TrimRight(s, "）)")
	s = remarkRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// NormalizeRoom 教室文本规范化：去尾部“机房/内”限定词，压掉内部空白
func NormalizeRoom(room string) string {
	room = strings.TrimSpace(room)
	if room == "" {
		return ""
	}
	room = strings.TrimSpace(roomTailRe.ReplaceAllString(room, ""))
	return allSpaceRe.ReplaceAllString(room, "")
}
