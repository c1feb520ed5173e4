package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/07fahim/EmailCraft-AI/internal/model"
)

// Excel-flavored HTML wrapper. Excel opens a .xls file containing an HTML
// table and renders it as a worksheet; the office namespaces keep it from
// prompting about the format.
const (
	excelHeader = `<html xmlns:o="urn:schemas-microsoft-com:office:office" xmlns:x="urn:schemas-microsoft-com:office:excel">
<head><meta charset="UTF-8"><!--[if gte mso 9]><xml><x:ExcelWorkbook><x:ExcelWorksheets><x:ExcelWorksheet><x:Name>Generated Emails</x:Name><x:WorksheetOptions><x:DisplayGridlines/></x:WorksheetOptions></x:ExcelWorksheet></x:ExcelWorksheets></x:ExcelWorkbook></xml><![endif]--></head>
<body><table border="1">
`
	excelFooter = "</table></body></html>\n"
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// escapeCell escapes markup characters and maps newlines onto explicit line
// breaks so multi-line bodies survive inside a table cell.
func escapeCell(s string) string {
	s = htmlEscaper.Replace(s)
	s = strings.ReplaceAll(s, "\r\n", "<br>")
	s = strings.ReplaceAll(s, "\r", "<br>")
	s = strings.ReplaceAll(s, "\n", "<br>")
	return s
}

// WriteExcel renders outcomes as an Excel-compatible HTML worksheet.
func WriteExcel(w io.Writer, outcomes []model.Outcome) error {
	var b strings.Builder
	b.WriteString(excelHeader)

	b.WriteString("<tr>")
	for _, h := range Headers() {
		fmt.Fprintf(&b, "<th>%s</th>", escapeCell(h))
	}
	b.WriteString("</tr>\n")

	for _, o := range outcomes {
		b.WriteString("<tr>")
		for _, cell := range cells(o) {
			fmt.Fprintf(&b, "<td>%s</td>", escapeCell(cell))
		}
		b.WriteString("</tr>\n")
	}

	b.WriteString(excelFooter)
	_, err := io.WriteString(w, b.String())
	return err
}
