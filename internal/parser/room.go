package parser

import (
	"fmt"
	"regexp"
	"strings"
)

// ── 教室提取规则 ──
//
// 两种文法都没匹配上的行，仍要尽力从中恢复一个教室，
// 供 CourseKey 生成使用。楼名缩写随校区命名习惯变化，
// 规则做成可配置的表，新楼名只改配置不改文法。

// RoomRule 一条教室提取规则：正则命中后拼接全部捕获组作为教室
type RoomRule struct {
	re *regexp.Regexp
}

// DefaultRoomRuleExprs 默认规则表：
//  1. 短楼名缩写 + 3~4 位房间号（锚定行尾）
//  2. “理科N号楼” 式命名 + 房间号
var DefaultRoomRuleExprs = []string{
	`(理教|一教|二教|三教|四教)\s*([0-9]{3,4})\s*$`,
	`(理科\s*[一二三四五六七八九十0-9]+号楼)\s*([0-9]{3,4})`,
}

// CompileRoomRules 编译规则表（通常来自配置）
func CompileRoomRules(exprs []string) ([]RoomRule, error) {
	rules := make([]RoomRule, 0, len(exprs))
	for _, expr := range exprs {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("教室提取规则 %q 编译失败: %w", expr, err)
		}
		rules = append(rules, RoomRule{re: re})
	}
	return rules, nil
}

// DefaultRoomRules 编译后的默认规则表
func DefaultRoomRules() []RoomRule {
	rules, err := CompileRoomRules(DefaultRoomRuleExprs)
	if err != nil {
		panic(err) // 默认表常量，编译失败属编程错误
	}
	return rules
}

// apply 在 s 上尝试一条规则，命中则返回规范化后的教室
func (r RoomRule) apply(s string) (string, bool) {
	m := r.re.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	if len(m) == 1 {
		return NormalizeRoom(m[0]), true
	}
	var b strings.Builder
	for _, g := range m[1:] {
		b.WriteString(g)
	}
	return NormalizeRoom(b.String()), true
}

// ExtractRoomFromAny 尽力从任意上课行中恢复教室。
//
// 顺序：先看两种文法能否直接给出 room 分组；否则剥掉括号注记、
// 取最后一个逗号之后的尾段，逐条套用规则表。全部不中返回空串。
func (p *Parser) ExtractRoomFromAny(line string) string {
	s := NormalizeSpaces(line)
	s2 := stripWrappingParens(s)

	if g := groups(periodLineRe, s); g != nil {
		return NormalizeRoom(g["room"])
	}
	if g := groups(clockLineRe, s2); g != nil {
		return NormalizeRoom(g["room"])
	}

	tail := strings.TrimSpace(parenSpanRe.ReplaceAllString(s, ""))
	if idx := strings.LastIndex(tail, ","); idx >= 0 {
		tail = tail[idx+1:]
	}
	tail = strings.TrimSpace(tail)

	for _, rule := range p.roomRules {
		if room, ok := rule.apply(tail); ok {
			return room
		}
	}
	return ""
}
