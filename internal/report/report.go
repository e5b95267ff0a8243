// Package report 提供会话测量报告的 Excel 导出
package report

import (
	"bytes"
	"fmt"

	"wisefido-camera-vitals/internal/repository"

	"github.com/xuri/excelize/v2"
)

// SessionReportHeader 会话报告表头
var SessionReportHeader = []string{
	"Time",
	"Heart Rate (bpm)",
	"SpO2 (%)",
	"Respiratory Rate (/min)",
	"Systolic (mmHg)",
	"Diastolic (mmHg)",
	"Stress (%)",
	"HRV (ms)",
	"Signal Quality",
	"Face Detected",
}

const sheetName = "Vitals Report"

// GenerateSessionReport 生成会话测量报告 Excel 文件
// records: 测量记录列表，如果为空则只生成表头
func GenerateSessionReport(records []*repository.VitalsRecord) ([]byte, error) {
	f := excelize.NewFile()
	// Note: Don't defer Close() here, because WriteTo needs the file to be open

	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	// 删除默认的 Sheet1
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	// 表头样式
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	// 写入表头
	for col, header := range SessionReportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
	}

	// 写入数据
	for rowIdx, record := range records {
		row := rowIdx + 2 // 从第2行开始（第1行是表头）
		values := []interface{}{
			record.Timestamp.Format("2006-01-02 15:04:05"),
			intCell(record.HeartRate),
			intCell(record.SpO2),
			intCell(record.RespiratoryRate),
			intCell(record.Systolic),
			intCell(record.Diastolic),
			intCell(record.StressLevel),
			intCell(record.HRV),
			record.OverallQuality,
			record.FaceDetected,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to convert coordinates: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write excel file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close excel file: %w", err)
	}

	return buf.Bytes(), nil
}

// intCell nil 字段导出为空单元格
func intCell(v *int) interface{} {
	if v == nil {
		return ""
	}
	return *v
}
