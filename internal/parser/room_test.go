package parser

import "testing"

func TestExtractRoomFromAnyFallback(t *testing.T) {
	p := New(nil)

	tests := []struct {
		name string
		line string
		want string
	}{
		{"文法直出-节次制", "3~16周 每周 周三 3~4节 理教107", "理教107"},
		{"文法直出-钟点制", "1-16周周二下午1-4点半,二教205", "二教205"},
		{"兜底-短楼名行尾", "每周周三上机 四教406", "四教406"},
		{"兜底-逗号取尾段", "上机时间待定,一教209", "一教209"},
		{"兜底-理科号楼", "周五晚自习 理科一号楼1265", "理科一号楼1265"},
		{"兜底-括号注记剥除", "上机安排（具体另行通知） 二教 302", "二教302"},
		{"无教室", "待定", ""},
		{"楼名不在规则表", "工学院大楼203", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.ExtractRoomFromAny(tt.line); got != tt.want {
				t.Errorf("ExtractRoomFromAny(%q) = %q, 期望 %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestCompileRoomRulesCustom(t *testing.T) {
	rules, err := CompileRoomRules([]string{`(工学院大楼)\s*([0-9]{3})`})
	if err != nil {
		t.Fatalf("规则编译失败: %v", err)
	}

	p := New(rules)
	if got := p.ExtractRoomFromAny("周一答疑 工学院大楼203"); got != "工学院大楼203" {
		t.Errorf("自定义规则未生效, got %q", got)
	}
	// 自定义表替换默认表，而非叠加
	if got := p.ExtractRoomFromAny("上机 四教406"); got != "" {
		t.Errorf("默认规则不应残留, got %q", got)
	}
}

func TestCompileRoomRulesInvalid(t *testing.T) {
	if _, err := CompileRoomRules([]string{`([`}); err == nil {
		t.Error("非法正则应返回编译错误")
	}
}

func TestNormalizeRoom(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  理教 107  ", "理教107"},
		{"二教205机房", "二教205"},
		{"理科一号楼1365内", "理科一号楼1365"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeRoom(tt.in); got != tt.want {
			t.Errorf("NormalizeRoom(%q) = %q, 期望 %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeSpaces(t *testing.T) {
	in := "1~16周\t每周；周一\r\n\r\n考试时间，待定"
	want := "1~16周 每周;周一\n考试时间,待定"
	if got := NormalizeSpaces(in); got != want {
		t.Errorf("NormalizeSpaces = %q, 期望 %q", got, want)
	}
}
