package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/DszGabriel04/attendance-nitgoa/database"
)

// ExportExcel serves a class's full attendance history as an .xlsx workbook:
// one row per student, one column per recorded date, P/A in the cells.
func (h *Handler) ExportExcel(c *gin.Context) {
	classID := c.Param("class_id")

	history, err := h.store.History(classID)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Class '%s' not found", classID)})
		return
	}
	if err != nil {
		log.Println("Failed to fetch history for export:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	dateSet := map[string]struct{}{}
	names := map[string]string{}
	status := map[string]map[string]string{} // student -> date -> P/A
	for _, rec := range history {
		dateSet[rec.Date] = struct{}{}
		names[rec.StudentID] = rec.StudentName
		if status[rec.StudentID] == nil {
			status[rec.StudentID] = map[string]string{}
		}
		status[rec.StudentID][rec.Date] = rec.Status
	}

	dates := make([]string, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	students := make([]string, 0, len(names))
	for id := range names {
		students = append(students, id)
	}
	sort.Strings(students)

	f := excelize.NewFile()
	defer f.Close()
	const sheet = "Attendance"
	f.SetSheetName("Sheet1", sheet)

	f.SetCellValue(sheet, "A1", "Roll Number")
	f.SetCellValue(sheet, "B1", "Name")
	for i, d := range dates {
		cell, _ := excelize.CoordinatesToCellName(3+i, 1)
		f.SetCellValue(sheet, cell, d)
	}

	for r, id := range students {
		rowCell, _ := excelize.CoordinatesToCellName(1, 2+r)
		f.SetCellValue(sheet, rowCell, id)
		nameCell, _ := excelize.CoordinatesToCellName(2, 2+r)
		f.SetCellValue(sheet, nameCell, names[id])
		for i, d := range dates {
			mark, ok := status[id][d]
			if !ok {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(3+i, 2+r)
			f.SetCellValue(sheet, cell, mark)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		log.Println("Failed to build workbook:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s-attendance.xlsx", classID))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}
