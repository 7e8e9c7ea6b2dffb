package api

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportXLSX renders a category's wide table as a spreadsheet download.
func (h *Handler) ExportXLSX(c *gin.Context) {
	cat, ok := h.category(c)
	if !ok {
		return
	}
	t, err := h.loadTable(cat)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := cat.Label
	if sheet == "" {
		sheet = cat.Key
	}
	f.SetSheetName("Sheet1", sheet)

	header := []interface{}{"item_name"}
	if t.HasSubCategory {
		header = append(header, "sub_category")
	}
	for _, label := range t.TimeColumns {
		header = append(header, label)
	}
	if err := writeRow(f, sheet, 1, header); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	for i, row := range t.Rows {
		cells := []interface{}{row.ItemName}
		if t.HasSubCategory {
			cells = append(cells, row.SubCategory)
		}
		for _, label := range t.TimeColumns {
			if price, present := row.Cells[label]; present {
				cells = append(cells, price)
			} else {
				cells = append(cells, nil)
			}
		}
		if err := writeRow(f, sheet, i+2, cells); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	filename := fmt.Sprintf("%s.xlsx", cat.Key)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`,
		filename, url.PathEscape(filename)))
	c.Header("Content-Type", xlsxContentType)
	if err := f.Write(c.Writer); err != nil {
		// Headers are already out; nothing useful left to report to the client.
		return
	}
}

func writeRow(f *excelize.File, sheet string, rowNum int, cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &cells)
}
