package timetable

import (
	"errors"
	"math"
	"testing"

	"github.com/mkbk-with-circle/PKU-Schedule-Planner/internal/model"
)

func testCourse(code, classNo, name, teacher string, credits float64, meetings ...model.Meeting) model.Course {
	return model.Course{
		UID:        model.UID{CourseCode: code, ClassNo: classNo},
		Key:        model.CourseKey{CourseName: name, CourseCode: code, Room: "理教107", ClassNo: classNo},
		CourseName: name,
		CourseCode: code,
		Teacher:    teacher,
		Credits:    credits,
		ClassNo:    classNo,
		Meetings:   meetings,
	}
}

func newTestResult(courses ...model.Course) *model.ParseResult {
	res := &model.ParseResult{
		ByKey:     make(map[model.CourseKey][]int),
		ByUID:     make(map[model.UID]int),
		TotalRows: len(courses),
	}
	for i, c := range courses {
		res.Courses = append(res.Courses, c)
		res.ByUID[c.UID] = i
		res.ByKey[c.Key] = append(res.ByKey[c.Key], i)
	}
	return res
}

func uid(code, classNo string) model.UID {
	return model.UID{CourseCode: code, ClassNo: classNo}
}

// ════════════════════════════════════════════════════════════
// 占用格推导
// ════════════════════════════════════════════════════════════

func TestOccupiedCellsOddPattern(t *testing.T) {
	c := testCourse("001", "01", "高等代数", "张三", 4,
		model.Meeting{StartWeek: 1, EndWeek: 4, Pattern: model.WeekOdd, Weekday: 2, StartPeriod: 3, EndPeriod: 4})

	cells := OccupiedCells(c, 16)

	// 第 1、3 周 × 第 3、4 节 = 4 格
	if len(cells) != 4 {
		t.Fatalf("期望 4 格, got %d: %v", len(cells), cells)
	}
	want := []Cell{
		{Week: 1, Weekday: 2, Period: 3},
		{Week: 1, Weekday: 2, Period: 4},
		{Week: 3, Weekday: 2, Period: 3},
		{Week: 3, Weekday: 2, Period: 4},
	}
	for i, w := range want {
		if cells[i] != w {
			t.Errorf("cells[%d] = %v, 期望 %v（升序去重）", i, cells[i], w)
		}
	}
}

func TestOccupiedCellsDedup(t *testing.T) {
	// 两条相同的 Meeting（不丢信息策略会保留重复行）不应产生重复格
	m := model.Meeting{StartWeek: 1, EndWeek: 2, Pattern: model.WeekEvery, Weekday: 1, StartPeriod: 1, EndPeriod: 2}
	c := testCourse("001", "01", "高等代数", "张三", 4, m, m)

	cells := OccupiedCells(c, 16)
	if len(cells) != 4 {
		t.Errorf("期望去重后 4 格, got %d", len(cells))
	}
}

func TestOccupiedCellsTermBound(t *testing.T) {
	c := testCourse("001", "01", "高等代数", "张三", 4,
		model.Meeting{StartWeek: 14, EndWeek: 20, Pattern: model.WeekEvery, Weekday: 1, StartPeriod: 1, EndPeriod: 1})

	cells := OccupiedCells(c, 16)
	// 超出学期的周次不计
	if len(cells) != 3 {
		t.Errorf("期望 3 格（第14~16周）, got %d", len(cells))
	}
}

func TestOccupiedCellsNoMeetings(t *testing.T) {
	c := testCourse("001", "01", "待定课", "张三", 2)
	if cells := OccupiedCells(c, 16); len(cells) != 0 {
		t.Errorf("无 Meeting 的课程不应占格, got %v", cells)
	}
}

// ════════════════════════════════════════════════════════════
// 冲突闸门
// ════════════════════════════════════════════════════════════

func TestCheckAddConflict(t *testing.T) {
	// 两门课都占 (第5周, 周三, 第4节)
	a := testCourse("001", "01", "高等代数", "张三", 4,
		model.Meeting{StartWeek: 1, EndWeek: 16, Pattern: model.WeekEvery, Weekday: 3, StartPeriod: 3, EndPeriod: 4})
	b := testCourse("002", "01", "拓扑学", "李四", 3,
		model.Meeting{StartWeek: 5, EndWeek: 8, Pattern: model.WeekEvery, Weekday: 3, StartPeriod: 4, EndPeriod: 6})

	e := NewEngine(newTestResult(a, b), 16, nil)

	verdict, err := e.CheckAdd([]model.UID{uid("001", "01")}, []model.UID{uid("002", "01")}, 25)
	if err != nil {
		t.Fatalf("CheckAdd 错误: %v", err)
	}
	if verdict.OK() || verdict.Conflict == nil {
		t.Fatal("期望检出时间冲突")
	}

	cf := verdict.Conflict
	if cf.First.CourseName != "高等代数" || cf.Second.CourseName != "拓扑学" {
		t.Errorf("冲突双方 = %s / %s", cf.First.CourseName, cf.Second.CourseName)
	}
	// 占用格升序保证报告的是最早的碰撞格
	if cf.Cell != (Cell{Week: 5, Weekday: 3, Period: 4}) {
		t.Errorf("冲突位置 = %v, 期望 第5周 周三 第4节", cf.Cell)
	}
}

func TestCheckAddDisjointPeriods(t *testing.T) {
	// 同一天不同节次不冲突
	a := testCourse("001", "01", "高等代数", "张三", 4,
		model.Meeting{StartWeek: 1, EndWeek: 16, Pattern: model.WeekEvery, Weekday: 3, StartPeriod: 1, EndPeriod: 2})
	b := testCourse("002", "01", "拓扑学", "李四", 3,
		model.Meeting{StartWeek: 1, EndWeek: 16, Pattern: model.WeekEvery, Weekday: 3, StartPeriod: 3, EndPeriod: 4})

	e := NewEngine(newTestResult(a, b), 16, nil)

	verdict, err := e.CheckAdd([]model.UID{uid("001", "01")}, []model.UID{uid("002", "01")}, 25)
	if err != nil {
		t.Fatalf("CheckAdd 错误: %v", err)
	}
	if !verdict.OK() {
		t.Errorf("不相交节次不应冲突: %+v", verdict)
	}
}

func TestCheckAddOddEvenInterleave(t *testing.T) {
	// 单双周交错,同一格从不同时占用
	a := testCourse("001", "01", "单周课", "张三", 2,
		model.Meeting{StartWeek: 1, EndWeek: 16, Pattern: model.WeekOdd, Weekday: 1, StartPeriod: 1, EndPeriod: 2})
	b := testCourse("002", "01", "双周课", "李四", 2,
		model.Meeting{StartWeek: 1, EndWeek: 16, Pattern: model.WeekEven, Weekday: 1, StartPeriod: 1, EndPeriod: 2})

	e := NewEngine(newTestResult(a, b), 16, nil)

	verdict, err := e.CheckAdd([]model.UID{uid("001", "01")}, []model.UID{uid("002", "01")}, 25)
	if err != nil {
		t.Fatalf("CheckAdd 错误: %v", err)
	}
	if !verdict.OK() {
		t.Errorf("单双周交错不应冲突: %+v", verdict)
	}
}

func TestCheckAddBatchInternalConflict(t *testing.T) {
	// 候选批内部互相冲突也要拒绝（批次原子性）
	a := testCourse("001", "01", "高等代数", "张三", 4,
		model.Meeting{StartWeek: 1, EndWeek: 16, Pattern: model.WeekEvery, Weekday: 1, StartPeriod: 1, EndPeriod: 2})
	b := testCourse("002", "01", "拓扑学", "李四", 3,
		model.Meeting{StartWeek: 1, EndWeek: 16, Pattern: model.WeekEvery, Weekday: 1, StartPeriod: 2, EndPeriod: 3})

	e := NewEngine(newTestResult(a, b), 16, nil)

	verdict, err := e.CheckAdd(nil, []model.UID{uid("001", "01"), uid("002", "01")}, 25)
	if err != nil {
		t.Fatalf("CheckAdd 错误: %v", err)
	}
	if verdict.Conflict == nil {
		t.Fatal("同批候选间的冲突也应检出")
	}
}

func TestCheckAddUnknownCourse(t *testing.T) {
	e := NewEngine(newTestResult(), 16, nil)

	_, err := e.CheckAdd(nil, []model.UID{uid("404", "01")}, 25)
	if !errors.Is(err, ErrUnknownCourse) {
		t.Errorf("未知 uid 应返回 ErrUnknownCourse, got %v", err)
	}
}

// ════════════════════════════════════════════════════════════
// 学分闸门
// ════════════════════════════════════════════════════════════

func TestCheckAddCreditExactLimit(t *testing.T) {
	a := testCourse("001", "01", "高等代数", "张三", 4)
	b := testCourse("002", "01", "拓扑学", "李四", 3)

	e := NewEngine(newTestResult(a, b), 16, nil)

	// 恰好到上限（含浮点容差）应通过
	verdict, err := e.CheckAdd([]model.UID{uid("001", "01")}, []model.UID{uid("002", "01")}, 7)
	if err != nil {
		t.Fatalf("CheckAdd 错误: %v", err)
	}
	if !verdict.OK() {
		t.Errorf("总学分恰好等于上限应通过: %+v", verdict)
	}

	// 容差内的浮点噪声也应通过
	verdict, _ = e.CheckAdd([]model.UID{uid("001", "01")}, []model.UID{uid("002", "01")}, 7-1e-12)
	if !verdict.OK() {
		t.Error("1e-9 容差内应通过")
	}
}

func TestCheckAddCreditExceeded(t *testing.T) {
	a := testCourse("001", "01", "高等代数", "张三", 4)
	b := testCourse("002", "01", "拓扑学", "李四", 3.5)

	e := NewEngine(newTestResult(a, b), 16, nil)

	verdict, err := e.CheckAdd([]model.UID{uid("001", "01")}, []model.UID{uid("002", "01")}, 7)
	if err != nil {
		t.Fatalf("CheckAdd 错误: %v", err)
	}
	if verdict.OK() || verdict.CreditExceeded == nil {
		t.Fatal("超限应被拒绝")
	}

	ce := verdict.CreditExceeded
	if math.Abs(ce.Current-4) > 1e-9 || math.Abs(ce.Added-3.5) > 1e-9 || math.Abs(ce.Limit-7) > 1e-9 {
		t.Errorf("回报数值 current=%g added=%g limit=%g, 期望 4/3.5/7", ce.Current, ce.Added, ce.Limit)
	}
}

func TestEngineOccupiedCellsCache(t *testing.T) {
	a := testCourse("001", "01", "高等代数", "张三", 4,
		model.Meeting{StartWeek: 1, EndWeek: 16, Pattern: model.WeekEvery, Weekday: 3, StartPeriod: 3, EndPeriod: 4})

	e := NewEngine(newTestResult(a), 16, nil)

	cells, ok := e.OccupiedCells(uid("001", "01"))
	if !ok {
		t.Fatal("已加载课程应有占用缓存")
	}
	if len(cells) != 32 {
		t.Errorf("16 周 × 2 节 = 32 格, got %d", len(cells))
	}

	if _, ok := e.OccupiedCells(uid("404", "01")); ok {
		t.Error("未知 uid 不应命中缓存")
	}
}
