package model

// RawRow 一行原始记录：列名 → 单元格文本。
// 由爬虫或文件加载器产出，核心只按下列字段名取值，其余字段原样透传。
type RawRow map[string]string

// 选课门户导出的固定中文列名
const (
	FieldCourseCode  = "课程号"
	FieldCourseName  = "课程名"
	FieldCategory    = "课程类别"
	FieldCredits     = "学分"
	FieldWeeklyHours = "周学时"
	FieldTeacher     = "教师"
	FieldClassNo     = "班号"
	FieldDepartment  = "开课单位"
	FieldGrade       = "年级"
	FieldMeetingInfo = "上课考试信息"
	FieldPassNoPass  = "自选PNP"
	FieldCapacity    = "限数已选"
	FieldPreference  = "意愿值"
	FieldPreElect    = "预选"
)

// FieldOrder 门户表格的列顺序，爬虫解析与 xlsx 写出共用
var FieldOrder = []string{
	FieldCourseCode,
	FieldCourseName,
	FieldCategory,
	FieldCredits,
	FieldWeeklyHours,
	FieldTeacher,
	FieldClassNo,
	FieldDepartment,
	FieldGrade,
	FieldMeetingInfo,
	FieldPassNoPass,
	FieldCapacity,
	FieldPreference,
	FieldPreElect,
}
