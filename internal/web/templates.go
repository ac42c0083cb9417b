package web

import (
	"html/template"
	"net/http"

	"skusort/internal"
)

type previewRow struct {
	Pos     int
	SKU     string
	Name    string
	Missing bool
	Product string
	Color   string
	Size    string
}

type pageData struct {
	Error      string
	Result     bool
	Derived    bool
	NameHeader string
	Stats      internal.RunStats
	Rows       []previewRow
}

var page = template.Must(template.New("page").Parse(`<!doctype html>
<html lang="zh-Hant">
<head><meta charset="utf-8"><title>SKU 對照工具</title></head>
<body>
<h1>SKU 對照工具 (PDF → Excel)</h1>
<form method="post" enctype="multipart/form-data">
  <p><label>PDF (SKU 清單) <input type="file" name="pdf" accept=".pdf" required></label></p>
  <p><label>Excel (對照表) <input type="file" name="lookup" accept=".xlsx" required></label></p>
  <button type="submit" formaction="/preview">預覽</button>
  <button type="submit" formaction="/export">下載排序後 Excel</button>
</form>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
{{if .Result}}
<p class="stats">rows={{.Stats.Rows}} matched={{.Stats.Matched}} unmatched={{.Stats.Unmatched}}</p>
<table id="result">
<thead><tr><th>#</th><th>SKU</th><th>{{.NameHeader}}</th>{{if .Derived}}<th>product</th><th>color</th><th>size</th>{{end}}</tr></thead>
<tbody>
{{range .Rows}}<tr{{if .Missing}} class="unmatched"{{end}}><td>{{.Pos}}</td><td>{{.SKU}}</td><td>{{.Name}}</td>{{if $.Derived}}<td>{{.Product}}</td><td>{{.Color}}</td><td>{{.Size}}</td>{{end}}</tr>
{{end}}</tbody>
</table>
{{end}}
</body>
</html>
`))

func (s *Server) render(w http.ResponseWriter, status int, data pageData) {
	if data.NameHeader == "" {
		data.NameHeader = s.cfg.OutputNameHeader
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := page.Execute(w, data); err != nil {
		s.log.Error("render page", "error", err)
	}
}
