package calendar

import (
	"html"
	"strconv"
	"strings"
)

// Table classes of the HTML rendering.
const (
	MonthClass    = "month"
	TrainingClass = "training"
)

// HTML renders the month as a table fragment.
func (m *Month) HTML() string {
	var sb strings.Builder
	sb.WriteString(`<table border="0" cellpadding="0" cellspacing="0" class="` + MonthClass + `">`)
	sb.WriteString("\n")
	sb.WriteString(`<tr><th colspan="7" class="` + MonthClass + `">` + html.EscapeString(m.Title) + "</th></tr>\n")
	sb.WriteString("<tr>")
	for _, name := range m.Weekdays {
		sb.WriteString(`<th class="` + strings.ToLower(name) + `">` + name + "</th>")
	}
	sb.WriteString("</tr>\n")
	for _, week := range m.Weeks {
		sb.WriteString("<tr>")
		for _, cell := range week {
			sb.WriteString(cell.HTML())
		}
		sb.WriteString("</tr>\n")
	}
	sb.WriteString("</table>\n")
	return sb.String()
}

// HTML renders the cell as a table data element.
func (c Cell) HTML() string {
	if c.Day == 0 {
		return `<td class="` + ClassNoDay + `">&nbsp;</td>`
	}
	day := strconv.Itoa(c.Day)
	link := html.EscapeString(c.Link)
	if c.TrainingID != "" {
		return `<td class="` + c.Class + `"><a href="` + link + `">` + day + `<br>` +
			`<div class="` + TrainingClass + `">` + html.EscapeString(c.Training) + `</div></a></td>`
	}
	return `<td class="` + c.Class + `"><a href="` + link + `">` + day + `</a></td>`
}
