package model

import "fmt"

// ── 周次模式 ──

// WeekPattern 表示一个上课时段在其起止周范围内实际发生的周次规律。
type WeekPattern string

const (
	// WeekEvery 每周都上
	WeekEvery WeekPattern = "every"
	// WeekOdd 仅单周上
	WeekOdd WeekPattern = "odd"
	// WeekEven 仅双周上
	WeekEven WeekPattern = "even"
)

// WeekdayNames 周几的中文标签（下标 0 对应周一）
var WeekdayNames = []string{"周一", "周二", "周三", "周四", "周五", "周六", "周日"}

// WeekdayLabel 将 1..7 转为中文标签，越界时返回 "周N" 兜底
func WeekdayLabel(weekday int) string {
	if weekday >= 1 && weekday <= 7 {
		return WeekdayNames[weekday-1]
	}
	return fmt.Sprintf("周%d", weekday)
}

// ── Meeting ──

// Meeting 一个连续的每周上课时段。
//
// 字段均为解析后的规范值：
//   - StartWeek/EndWeek: 1 起始、闭区间，保证 StartWeek <= EndWeek
//   - Weekday: 1=周一 … 7=周日
//   - StartPeriod/EndPeriod: 节次 1..12，闭区间，保证 StartPeriod <= EndPeriod
//   - Room: 规范化后的教室（可能为空）
//   - Raw: 原始文本行，保留用于诊断输出
type Meeting struct {
	StartWeek   int         `json:"start_week"`
	EndWeek     int         `json:"end_week"`
	Pattern     WeekPattern `json:"pattern"`
	Weekday     int         `json:"weekday"`
	StartPeriod int         `json:"start_period"`
	EndPeriod   int         `json:"end_period"`
	Room        string      `json:"room,omitempty"`
	Raw         string      `json:"raw,omitempty"`
}

// OccursOnWeek 判断第 week 周是否有课：
// 周次落在 [StartWeek, EndWeek] 内，且奇偶性与 Pattern 匹配（每周恒匹配）。
func (m Meeting) OccursOnWeek(week int) bool {
	if week < m.StartWeek || week > m.EndWeek {
		return false
	}
	switch m.Pattern {
	case WeekEvery:
		return true
	case WeekOdd:
		return week%2 == 1
	case WeekEven:
		return week%2 == 0
	}
	return false
}

// OccursOn 判断 (周次, 周几, 节次) 是否被该时段占用
func (m Meeting) OccursOn(week, weekday, period int) bool {
	return m.OccursOnWeek(week) &&
		m.Weekday == weekday &&
		m.StartPeriod <= period && period <= m.EndPeriod
}

// ── 课程身份 ──

// UID 选课阶段使用的实用唯一句柄：(课程号, 班号)。
// 同一数据集内应唯一；重复时记 warning 而非报错。
type UID struct {
	CourseCode string `json:"course_code"`
	ClassNo    string `json:"class_no"`
}

func (u UID) String() string {
	return u.CourseCode + "/" + u.ClassNo
}

// CourseKey 四元组唯一标识：(课程名, 课程号, 教室, 班号)。
// 比 UID 更严格，用于发现真正的重复开课记录。
type CourseKey struct {
	CourseName string `json:"course_name"`
	CourseCode string `json:"course_code"`
	Room       string `json:"room"`
	ClassNo    string `json:"class_no"`
}

func (k CourseKey) String() string {
	return fmt.Sprintf("(%s, %s, %s, %s)", k.CourseName, k.CourseCode, k.Room, k.ClassNo)
}

// RoomUnknown 任何上课行都没能恢复出教室时，CourseKey.Room 使用的占位值
const RoomUnknown = "（地点未知）"

// ── Course ──

// Course 一行输入记录（永不丢行，即使时间文本完全无法解析）。
// 构造后不再修改。
type Course struct {
	UID UID       `json:"uid"`
	Key CourseKey `json:"key"`

	CourseName string  `json:"course_name"`
	CourseCode string  `json:"course_code"`
	Teacher    string  `json:"teacher"`
	Department string  `json:"department"`
	Credits    float64 `json:"credits"`
	ClassNo    string  `json:"class_no"`
	Category   string  `json:"category,omitempty"`
	Grade      string  `json:"grade,omitempty"`

	Meetings []Meeting `json:"meetings"`

	// Raw 原始行映射，原样保留（含不被解释的透传字段）
	Raw RawRow `json:"-"`
	// ParseWarnings 每条对应一行两种文法都没匹配上的上课行
	ParseWarnings []string `json:"parse_warnings,omitempty"`
}
