package handler

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	appI18n "github.com/pavelanni/quizserver/internal/i18n"
	"github.com/pavelanni/quizserver/internal/model"
)

// The admin report is a single read-only table, so it is rendered with
// html/template rather than a full view layer.
var adminTmpl = template.Must(template.New("admin").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 0.4rem 0.8rem; text-align: left; }
tr.cancelled td { color: #a00; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p>{{.Summary}}</p>
<table>
<tr>
<th>#</th>
<th>{{.Labels.Name}}</th>
<th>{{.Labels.RegNumber}}</th>
<th>{{.Labels.Score}}</th>
<th>{{.Labels.TimeTaken}}</th>
<th>{{.Labels.SubmittedAt}}</th>
<th>{{.Labels.Status}}</th>
</tr>
{{range .Rows}}
<tr{{if .Cancelled}} class="cancelled"{{end}}>
<td>{{.Rank}}</td>
<td>{{.Name}}</td>
<td>{{.RegNumber}}</td>
<td>{{.Score}}/{{.Total}}</td>
<td>{{.TimeTaken}}</td>
<td>{{.SubmittedAt}}</td>
<td>{{.Status}}</td>
</tr>
{{end}}
</table>
</body>
</html>
`))

type adminLabels struct {
	Name        string
	RegNumber   string
	Score       string
	TimeTaken   string
	SubmittedAt string
	Status      string
}

type adminRow struct {
	Rank        int
	Name        string
	RegNumber   string
	Score       int
	Total       int
	TimeTaken   string
	SubmittedAt string
	Cancelled   bool
	Status      string
}

type adminPage struct {
	Title   string
	Summary string
	Labels  adminLabels
	Rows    []adminRow
}

// handleAdminPage renders all results in rank order: score descending,
// time taken ascending, submission time ascending.
func (h *Handler) handleAdminPage(w http.ResponseWriter, r *http.Request) {
	results, err := h.store.ListResults(r.Context())
	if err != nil {
		slog.Error("list results failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	ctx := r.Context()
	page := adminPage{
		Title:   appI18n.T(ctx, "AdminTitle"),
		Summary: appI18n.Tp(ctx, "ResultsCount", len(results)),
		Labels: adminLabels{
			Name:        appI18n.T(ctx, "ColName"),
			RegNumber:   appI18n.T(ctx, "ColRegNumber"),
			Score:       appI18n.T(ctx, "ColScore"),
			TimeTaken:   appI18n.T(ctx, "ColTimeTaken"),
			SubmittedAt: appI18n.T(ctx, "ColSubmittedAt"),
			Status:      appI18n.T(ctx, "ColStatus"),
		},
	}
	for i, res := range results {
		status := appI18n.T(ctx, "StatusOK")
		if res.Cancelled {
			status = appI18n.Td(ctx, "StatusCancelled", map[string]any{"Count": res.MalpracticeCount})
		}
		page.Rows = append(page.Rows, adminRow{
			Rank:        i + 1,
			Name:        res.Name,
			RegNumber:   res.RegNumber,
			Score:       res.Score,
			Total:       res.Total,
			TimeTaken:   fmt.Sprintf("%.1fs", res.TimeTakenSeconds),
			SubmittedAt: res.SubmittedAt.Format("2006-01-02 15:04:05"),
			Cancelled:   res.Cancelled,
			Status:      status,
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := adminTmpl.Execute(w, page); err != nil {
		slog.Error("render error", "error", err)
	}
}

type adminResultsResponse struct {
	Results []model.Result `json:"results"`
}

// handleAdminResults serves the same report as JSON; the export command
// uses the identical record shape.
func (h *Handler) handleAdminResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.store.ListResults(r.Context())
	if err != nil {
		slog.Error("list results failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, adminResultsResponse{Results: results})
}
