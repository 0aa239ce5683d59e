package crawler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mkbk-with-circle/PKU-Schedule-Planner/config"
	"github.com/mkbk-with-circle/PKU-Schedule-Planner/internal/model"
)

func courseRowHTML(code, name, classNo string) string {
	return fmt.Sprintf(`<tr class="datagrid-even">
		<td>%s</td><td>%s</td><td>专业必修</td><td>4</td><td>4</td>
		<td>张三</td><td>%s</td><td>数学科学学院</td><td>2023</td>
		<td>3~16周 每周 周三 3~4节 理教107<br>考试时间：2024-01-10 14:00</td>
		<td>是</td><td>120 / 35</td>
		<td><input type="text" value="0"></td><td><input type="checkbox" value="未选"></td>
	</tr>`, code, name, classNo)
}

func pageHTML(totalPages int, rows ...string) string {
	return fmt.Sprintf(`<html><body>
		<span>Page 1 of %d</span>
		<table class="datagrid"><tbody>
		<tr class="datagrid-header"><td>课程号</td></tr>
		%s
		</tbody></table>
	</body></html>`, totalPages, strings.Join(rows, "\n"))
}

func TestParsePage(t *testing.T) {
	content := pageHTML(3,
		courseRowHTML("00132301", "高等代数", "01"),
		courseRowHTML("04831750", "操作系统", "02"),
	)

	p, err := parsePage(content)
	if err != nil {
		t.Fatalf("parsePage 失败: %v", err)
	}

	if p.totalPages != 3 {
		t.Errorf("totalPages = %d, 期望 3", p.totalPages)
	}
	if len(p.rows) != 2 {
		t.Fatalf("期望 2 行, got %d", len(p.rows))
	}
	if p.firstCourseID != "00132301" {
		t.Errorf("firstCourseID = %q", p.firstCourseID)
	}

	row := p.rows[0]
	if row[model.FieldCourseName] != "高等代数" {
		t.Errorf("课程名 = %q", row[model.FieldCourseName])
	}
	// <br> 转为结构性换行
	if !strings.Contains(row[model.FieldMeetingInfo], "\n考试时间：") {
		t.Errorf("上课考试信息应按 <br> 换行: %q", row[model.FieldMeetingInfo])
	}
	// input 列取 value
	if row[model.FieldPreference] != "0" {
		t.Errorf("意愿值 = %q, 期望取 input value", row[model.FieldPreference])
	}
	if row[model.FieldPreElect] != "未选" {
		t.Errorf("预选 = %q", row[model.FieldPreElect])
	}
}

func TestParsePageNoTable(t *testing.T) {
	p, err := parsePage("<html><body><p>暂无数据</p></body></html>")
	if err != nil {
		t.Fatalf("parsePage 失败: %v", err)
	}
	if len(p.rows) != 0 {
		t.Errorf("无表格页面应返回零行, got %d", len(p.rows))
	}
}

func TestFetchAllPagination(t *testing.T) {
	var gotCookies []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCookies = append(gotCookies, r.Header.Get("Cookie"))

		switch r.URL.Query().Get("netui_row") {
		case "electableCourseListGrid;0":
			fmt.Fprint(w, pageHTML(2,
				courseRowHTML("001", "高等代数", "01"),
				courseRowHTML("002", "拓扑学", "01"),
			))
		default:
			// 第二页与第一页存在一行重复，验证去重
			fmt.Fprint(w, pageHTML(2,
				courseRowHTML("002", "拓扑学", "01"),
				courseRowHTML("003", "泛函分析", "01"),
			))
		}
	}))
	defer srv.Close()

	c := New(config.CrawlerConfig{
		BaseURL:   srv.URL,
		Cookie:    "JSESSIONID=test",
		UserAgent: "test-agent",
		PageSize:  20,
		MaxPages:  10,
		Timeout:   5 * time.Second,
	}, nil)

	rows, err := c.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll 失败: %v", err)
	}

	if len(rows) != 3 {
		t.Errorf("去重后期望 3 行, got %d", len(rows))
	}
	for _, ck := range gotCookies {
		if ck != "JSESSIONID=test" {
			t.Errorf("Cookie 未随请求发送: %q", ck)
		}
	}
}

func TestFetchAllSessionExpired(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "<html><body>会话超时，请重新登录</body></html>")
	}))
	defer srv.Close()

	c := New(config.CrawlerConfig{
		BaseURL:  srv.URL,
		PageSize: 20,
		Timeout:  5 * time.Second,
	}, nil)

	if _, err := c.FetchAll(context.Background()); err != ErrSessionExpired {
		t.Errorf("期望 ErrSessionExpired, got %v", err)
	}
}

func TestFetchAllMaxPagesCap(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		fmt.Fprint(w, pageHTML(50, courseRowHTML(fmt.Sprintf("%03d", hits), "课程", "01")))
	}))
	defer srv.Close()

	c := New(config.CrawlerConfig{
		BaseURL:  srv.URL,
		PageSize: 20,
		MaxPages: 3,
		Timeout:  5 * time.Second,
	}, nil)

	rows, err := c.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll 失败: %v", err)
	}
	if hits != 3 {
		t.Errorf("页数应被 max_pages 截断为 3, 实际请求 %d 次", hits)
	}
	if len(rows) != 3 {
		t.Errorf("期望 3 行, got %d", len(rows))
	}
}
