// Package timetable 由课程的上课时段推导全学期占用格，并在此之上
// 做选课批次的时间冲突检测与学分上限闸门。
package timetable

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/mkbk-with-circle/PKU-Schedule-Planner/internal/model"
)

// DefaultTermWeeks 教学周总数。此类校历固定 16 个教学周。
const DefaultTermWeeks = 16

// creditEpsilon 学分求和的浮点容差
const creditEpsilon = 1e-9

// ErrUnknownCourse 传入的 uid 在已加载课程集中不存在
var ErrUnknownCourse = errors.New("课程不存在")

// ── 占用格 ──

// Cell 一个被占用的 (周次, 周几, 节次) 格，冲突检测的最小单位
type Cell struct {
	Week    int `json:"week"`
	Weekday int `json:"weekday"`
	Period  int `json:"period"`
}

func (c Cell) String() string {
	return fmt.Sprintf("第%d周 %s 第%d节", c.Week, model.WeekdayLabel(c.Weekday), c.Period)
}

// OccupiedCells 计算一门课在 [1, weeks] 教学周内占用的全部格。
// 纯函数；结果按 (周次, 周几, 节次) 升序且去重，保证冲突报告确定性。
func OccupiedCells(c model.Course, weeks int) []Cell {
	if weeks <= 0 {
		weeks = DefaultTermWeeks
	}

	seen := make(map[Cell]struct{})
	var cells []Cell
	for week := 1; week <= weeks; week++ {
		for _, m := range c.Meetings {
			if !m.OccursOnWeek(week) {
				continue
			}
			for p := m.StartPeriod; p <= m.EndPeriod; p++ {
				cell := Cell{Week: week, Weekday: m.Weekday, Period: p}
				if _, ok := seen[cell]; ok {
					continue
				}
				seen[cell] = struct{}{}
				cells = append(cells, cell)
			}
		}
	}

	sort.Slice(cells, func(i, j int) bool {
		a, b := cells[i], cells[j]
		if a.Week != b.Week {
			return a.Week < b.Week
		}
		if a.Weekday != b.Weekday {
			return a.Weekday < b.Weekday
		}
		return a.Period < b.Period
	})
	return cells
}

// ── 检查结论 ──

// Conflict 时间冲突：两门课与精确碰撞格
type Conflict struct {
	First  model.Course `json:"first"`
	Second model.Course `json:"second"`
	Cell   Cell         `json:"cell"`
}

// Message 渲染用户可读的冲突说明
func (c *Conflict) Message() string {
	return fmt.Sprintf(
		"检测到时间冲突：\n\n - %s | %s | 班%s\n - %s | %s | 班%s\n\n冲突位置：%s",
		c.First.CourseName, c.First.Teacher, c.First.ClassNo,
		c.Second.CourseName, c.Second.Teacher, c.Second.ClassNo,
		c.Cell)
}

// CreditExceeded 学分超限：当前已选、本批新增、上限
type CreditExceeded struct {
	Current float64 `json:"current"`
	Added   float64 `json:"added"`
	Limit   float64 `json:"limit"`
}

// Message 渲染用户可读的超限说明
func (c *CreditExceeded) Message() string {
	return fmt.Sprintf("加入这些课程会超出学分上限。\n\n当前：%g\n新增：%g\n上限：%g",
		c.Current, c.Added, c.Limit)
}

// Verdict CheckAdd 的结构化结论：两个指针都为 nil 表示批次可整体加入
type Verdict struct {
	Conflict       *Conflict       `json:"conflict,omitempty"`
	CreditExceeded *CreditExceeded `json:"credit_exceeded,omitempty"`
}

// OK 批次是否通过两道闸门
func (v Verdict) OK() bool {
	return v.Conflict == nil && v.CreditExceeded == nil
}

// ── Engine ──

// Engine 对一次加载结果的占用视图。
// 占用格在构造时对每门课算好并缓存；Course 不可变，缓存终身有效。
type Engine struct {
	res    *model.ParseResult
	weeks  int
	logger *zap.Logger
	occ    map[model.UID][]Cell
}

// NewEngine 基于加载结果构建引擎；weeks <= 0 时取 DefaultTermWeeks
func NewEngine(res *model.ParseResult, weeks int, logger *zap.Logger) *Engine {
	if weeks <= 0 {
		weeks = DefaultTermWeeks
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	occ := make(map[model.UID][]Cell, len(res.ByUID))
	for uid, idx := range res.ByUID {
		occ[uid] = OccupiedCells(res.Courses[idx], weeks)
	}

	return &Engine{res: res, weeks: weeks, logger: logger, occ: occ}
}

// TermWeeks 引擎使用的教学周总数
func (e *Engine) TermWeeks() int { return e.weeks }

// OccupiedCells 返回一门课缓存的占用格；uid 未知时 ok 为 false。
// 返回的切片是缓存本体，调用方不得修改。
func (e *Engine) OccupiedCells(uid model.UID) ([]Cell, bool) {
	cells, ok := e.occ[uid]
	return cells, ok
}

// CheckAdd 判定把 candidates 整批加入已选集 selected 是否可行。
//
//   - 冲突闸门：候选按给定顺序逐个检查，占用格已被已选课或同批
//     更早的候选占用即判冲突；只报第一处冲突
//   - 学分闸门：已选 + 本批学分之和不得超过 creditLimit（容差 1e-9）
//
// 两道闸门都通过才算通过；批次要么整体可加要么整体不可加。
// 任一 uid 未知返回 ErrUnknownCourse。
func (e *Engine) CheckAdd(selected, candidates []model.UID, creditLimit float64) (Verdict, error) {
	for _, uid := range append(append([]model.UID{}, selected...), candidates...) {
		if _, ok := e.res.ByUID[uid]; !ok {
			return Verdict{}, fmt.Errorf("%w: %s", ErrUnknownCourse, uid)
		}
	}

	occupied := make(map[Cell]model.UID)
	for _, uid := range selected {
		for _, cell := range e.occ[uid] {
			occupied[cell] = uid
		}
	}

	for _, uid := range candidates {
		for _, cell := range e.occ[uid] {
			if owner, taken := occupied[cell]; taken {
				first, _ := e.res.CourseByUID(owner)
				second, _ := e.res.CourseByUID(uid)
				e.logger.Debug("选课批次存在时间冲突",
					zap.String("first", owner.String()),
					zap.String("second", uid.String()),
					zap.String("cell", cell.String()),
				)
				return Verdict{Conflict: &Conflict{First: first, Second: second, Cell: cell}}, nil
			}
			occupied[cell] = uid
		}
	}

	current := e.sumCredits(selected)
	added := e.sumCredits(candidates)
	if current+added > creditLimit+creditEpsilon {
		e.logger.Debug("选课批次超出学分上限",
			zap.Float64("current", current),
			zap.Float64("added", added),
			zap.Float64("limit", creditLimit),
		)
		return Verdict{CreditExceeded: &CreditExceeded{Current: current, Added: added, Limit: creditLimit}}, nil
	}

	return Verdict{}, nil
}

// sumCredits 求和前去重：selected 语义上是集合，重复 uid 只计一次
func (e *Engine) sumCredits(uids []model.UID) float64 {
	seen := make(map[model.UID]bool, len(uids))
	total := 0.0
	for _, uid := range uids {
		if seen[uid] {
			continue
		}
		seen[uid] = true
		if c, ok := e.res.CourseByUID(uid); ok {
			total += c.Credits
		}
	}
	return total
}
