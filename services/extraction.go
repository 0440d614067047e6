package services

import (
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"

	"docuchat-backend/internal/logger"
)

var whitespacePattern = regexp.MustCompile(`\s+`)

// ExtractText pulls plain text out of an uploaded file based on its
// extension. Extraction failures return a sentinel message rather than an
// error so a bad file still produces an analyzable (if useless) document.
func ExtractText(filename string, content []byte) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return extractPDF(content)
	case ".txt":
		return string(content)
	case ".xlsx":
		return extractXLSX(content)
	default:
		// Treat unknown types as text; binary garbage falls out in
		// analysis.
		return string(content)
	}
}

func extractPDF(content []byte) string {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		logger.Warn("PDF parsing failed", "error", err)
		return "PDF parsing failed - document might be corrupted or unsupported."
	}

	var text strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		var fonts map[string]*pdf.Font
		pageText, err := page.GetPlainText(fonts)
		if err != nil {
			logger.Debug("Failed to extract page text", "page", i, "error", err)
			continue
		}
		text.WriteString(pageText)
		text.WriteString("\n")
	}

	normalized := strings.TrimSpace(whitespacePattern.ReplaceAllString(text.String(), " "))
	if normalized == "" {
		return "PDF text extraction failed - document might be image-based or corrupted."
	}
	return normalized
}

func extractXLSX(content []byte) string {
	workbook, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		logger.Warn("Spreadsheet parsing failed", "error", err)
		return "Spreadsheet parsing failed - document might be corrupted or unsupported."
	}
	defer workbook.Close()

	var text strings.Builder
	for _, sheet := range workbook.GetSheetList() {
		rows, err := workbook.GetRows(sheet)
		if err != nil {
			logger.Debug("Failed to read sheet", "sheet", sheet, "error", err)
			continue
		}
		if text.Len() > 0 {
			text.WriteString("\n")
		}
		fmt.Fprintf(&text, "Sheet: %s\n", sheet)
		for _, row := range rows {
			text.WriteString(strings.Join(row, " "))
			text.WriteString("\n")
		}
	}

	return strings.TrimSpace(text.String())
}
