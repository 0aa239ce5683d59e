package handler

import (
	"github.com/mkbk-with-circle/PKU-Schedule-Planner/internal/model"
	"github.com/mkbk-with-circle/PKU-Schedule-Planner/internal/timetable"
)

// CourseDetailResponse 单门课程 + 其全学期占用格
type CourseDetailResponse struct {
	Course        model.Course     `json:"course"`
	OccupiedCells []timetable.Cell `json:"occupied_cells"`
}

// DiagnosticsResponse 加载诊断汇总
type DiagnosticsResponse struct {
	TotalRows            int      `json:"total_rows"`
	Courses              int      `json:"courses"`
	UniqueKeys           int      `json:"unique_keys"`
	GlobalWarnings       []string `json:"global_warnings"`
	EmptyRoomRows        []string `json:"empty_room_rows"`
	MeetingParseWarnings []string `json:"meeting_parse_warnings"`
	KeyCollisions        []string `json:"key_collisions"`
}

// CheckSelectionRequest 选课批次检查请求。
// credit_limit 缺省时使用服务端配置的默认上限。
type CheckSelectionRequest struct {
	Selected    []model.UID `json:"selected"`
	Candidates  []model.UID `json:"candidates" binding:"required,min=1"`
	CreditLimit *float64    `json:"credit_limit"`
}

// CheckSelectionResponse 结构化检查结论：
// ok=true 表示批次可整体加入；否则恰有一个拒绝原因非空
type CheckSelectionResponse struct {
	OK             bool                      `json:"ok"`
	Conflict       *timetable.Conflict       `json:"conflict,omitempty"`
	CreditExceeded *timetable.CreditExceeded `json:"credit_exceeded,omitempty"`
	Message        string                    `json:"message,omitempty"`
}
