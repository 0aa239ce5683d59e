// 解析调试入口：读取课程文件，打印加载摘要与各类诊断样例。
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/mkbk-with-circle/PKU-Schedule-Planner/config"
	"github.com/mkbk-with-circle/PKU-Schedule-Planner/internal/course"
	"github.com/mkbk-with-circle/PKU-Schedule-Planner/internal/loader"
	"github.com/mkbk-with-circle/PKU-Schedule-Planner/internal/model"
	"github.com/mkbk-with-circle/PKU-Schedule-Planner/internal/parser"
	applogger "github.com/mkbk-with-circle/PKU-Schedule-Planner/pkg/logger"
)

func main() {
	file := flag.String("file", "pku_courses.xlsx", "输入文件路径（.xlsx/.csv）")
	sheet := flag.String("sheet", "courses", "xlsx 的 sheet 名称")
	debug := flag.Bool("debug", false, "打印诊断样例与钟点制示例课程")
	configPath := flag.String("config", "", "配置文件路径（可选）")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	var rules []parser.RoomRule
	if len(cfg.Rooms.Rules) > 0 {
		if rules, err = parser.CompileRoomRules(cfg.Rooms.Rules); err != nil {
			logger.Fatal("教室提取规则编译失败", zap.Error(err))
		}
	}

	rows, err := loader.ReadFile(*file, *sheet)
	if err != nil {
		logger.Fatal("读取课程文件失败", zap.Error(err))
	}

	res := course.NewBuilder(parser.New(rules), logger).Load(rows)

	fmt.Printf("读到原始记录行数（不含表头）：%d\n", res.TotalRows)
	fmt.Printf("Course 行数（保留每一行，不丢）：%d\n", len(res.Courses))
	fmt.Printf("CourseKey 唯一数量：%d\n", len(res.ByKey))
	fmt.Printf("key 碰撞数量（理论上应为0，实际）：%d\n", len(res.KeyCollisions))
	fmt.Printf("room 为空的行数：%d\n", len(res.EmptyRoomRows))
	fmt.Printf("上课行未解析 warning 数：%d\n", len(res.MeetingParseWarnings))
	fmt.Printf("行级解析失败数：%d\n", len(res.GlobalWarnings))

	if !*debug {
		return
	}

	printSamples("key碰撞", res.KeyCollisions, 10)
	printSamples("room为空", res.EmptyRoomRows, 5)
	printSamples("上课行未解析", res.MeetingParseWarnings, 10)
	printSamples("行级解析失败", res.GlobalWarnings, 10)

	// 找一条钟点制示例课程（如果存在）
	for _, c := range res.Courses {
		info := c.Raw[model.FieldMeetingInfo]
		if !strings.Contains(info, "第") || !strings.Contains(info, "周") {
			continue
		}
		if !strings.Contains(info, "下午") && !strings.Contains(info, "晚") {
			continue
		}

		fmt.Println("\n--- 钟点制示例课程 ---")
		fmt.Printf("uid: %s\n", c.UID)
		fmt.Printf("key: %s\n", c.Key)
		fmt.Printf("教师: %s 学分: %g 开课单位: %s\n", c.Teacher, c.Credits, c.Department)
		fmt.Println("meetings:")
		for _, m := range c.Meetings {
			fmt.Printf(" - %+v\n", m)
		}
		if len(c.ParseWarnings) > 0 {
			fmt.Println("warnings:")
			for _, w := range c.ParseWarnings {
				fmt.Printf(" - %s\n", w)
			}
		}
		break
	}
}

func printSamples(name string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	fmt.Printf("\n[示例] %s（前%d条）：\n", name, limit)
	for i, s := range items {
		if i >= limit {
			break
		}
		fmt.Println(" -", s)
	}
}
