// Package loader 课程数据文件的读写：csv / xlsx 两种表格格式。
// 只负责把文件变成原始行映射（或反向写出），不解释任何字段。
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/mkbk-with-circle/PKU-Schedule-Planner/internal/model"
)

// ErrUnsupportedFormat 仅支持 .xlsx 与 .csv
var ErrUnsupportedFormat = errors.New("仅支持 .xlsx 或 .csv 文件")

// DefaultSheet xlsx 默认 sheet 名
const DefaultSheet = "courses"

// ReadFile 按扩展名分派读取课程文件。扩展名先行校验，不支持的格式不开文件。
func ReadFile(path, sheet string) ([]model.RawRow, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".xlsx" && ext != ".csv" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开课程文件失败: %w", err)
	}
	defer f.Close()

	if ext == ".xlsx" {
		return ReadXLSX(f, sheet)
	}
	return ReadCSV(f)
}

// ReadCSV 读取 UTF-8（可带 BOM）的 csv：首行作列名，缺失单元格补空串
func ReadCSV(r io.Reader) ([]model.RawRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("读取 csv 失败: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	rows := make([]model.RawRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(model.RawRow, len(header))
		for i, key := range header {
			key = strings.TrimSpace(key)
			if key == "" {
				continue
			}
			if i < len(rec) {
				row[key] = rec[i]
			} else {
				row[key] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ReadXLSX 读取 xlsx：优先取名为 sheet 的工作表，不存在时退回第一个；
// 首行作列名，整行全空的行跳过
func ReadXLSX(r io.Reader, sheet string) ([]model.RawRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("读取 xlsx 失败: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = DefaultSheet
	}
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	found := false
	for _, s := range sheets {
		if s == sheet {
			found = true
			break
		}
	}
	if !found {
		sheet = sheets[0]
	}

	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("读取工作表 %q 失败: %w", sheet, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}

	var rows []model.RawRow
	for _, rec := range records[1:] {
		empty := true
		for _, v := range rec {
			if strings.TrimSpace(v) != "" {
				empty = false
				break
			}
		}
		if empty {
			continue
		}

		row := make(model.RawRow, len(header))
		for i, key := range header {
			if key == "" {
				continue
			}
			if i < len(rec) {
				row[key] = rec[i]
			} else {
				row[key] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WriteXLSX 按门户固定列序写出课程行。
// “上课考试信息”列是多行文本，单元格启用自动换行并加宽列。
func WriteXLSX(w io.Writer, rows []model.RawRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", DefaultSheet); err != nil {
		return fmt.Errorf("创建工作表失败: %w", err)
	}

	header := make([]interface{}, len(model.FieldOrder))
	for i, field := range model.FieldOrder {
		header[i] = field
	}
	if err := f.SetSheetRow(DefaultSheet, "A1", &header); err != nil {
		return fmt.Errorf("写表头失败: %w", err)
	}

	infoCol := 0
	for i, field := range model.FieldOrder {
		if field == model.FieldMeetingInfo {
			infoCol = i + 1
			break
		}
	}

	for i, row := range rows {
		cells := make([]interface{}, len(model.FieldOrder))
		for j, field := range model.FieldOrder {
			cells[j] = row[field]
		}
		addr, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(DefaultSheet, addr, &cells); err != nil {
			return fmt.Errorf("写第 %d 行失败: %w", i+2, err)
		}
	}

	if infoCol > 0 && len(rows) > 0 {
		wrap, err := f.NewStyle(&excelize.Style{
			Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
		})
		if err != nil {
			return fmt.Errorf("创建单元格样式失败: %w", err)
		}
		colName, err := excelize.ColumnNumberToName(infoCol)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(DefaultSheet, colName, colName, 48); err != nil {
			return err
		}
		top, _ := excelize.CoordinatesToCellName(infoCol, 2)
		bottom, _ := excelize.CoordinatesToCellName(infoCol, len(rows)+1)
		if err := f.SetCellStyle(DefaultSheet, top, bottom, wrap); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("写出 xlsx 失败: %w", err)
	}
	return nil
}

// WriteFile 按扩展名分派写出（.xlsx 或 .csv）。
// 扩展名先行校验，不支持的格式不会留下空文件。
func WriteFile(path string, rows []model.RawRow) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".xlsx" && ext != ".csv" {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建输出文件失败: %w", err)
	}
	defer f.Close()

	if ext == ".xlsx" {
		return WriteXLSX(f, rows)
	}
	return WriteCSV(f, rows)
}

// WriteCSV 按门户固定列序写出 csv（带 BOM，便于 Excel 直接打开）
func WriteCSV(w io.Writer, rows []model.RawRow) error {
	if _, err := io.WriteString(w, "\uFEFF"); err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(model.FieldOrder); err != nil {
		return fmt.Errorf("写表头失败: %w", err)
	}
	for _, row := range rows {
		rec := make([]string, len(model.FieldOrder))
		for i, field := range model.FieldOrder {
			rec[i] = row[field]
		}
		if err := writer.Write(rec); err != nil {
			return fmt.Errorf("写数据行失败: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}
