package httpapi

import (
	"bytes"
	"context"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"AdvocateDirectory/internal/domain"
)

var directoryPage = template.Must(template.New("directory").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>Solace Advocates</title>
</head>
<body>
  <main>
    <h1>Solace Advocates</h1>
    {{- if .Advocates }}
    <table id="advocates">
      <thead>
        <tr>
          <th>Name</th>
          <th>Location</th>
          <th>Credentials</th>
          <th>Specialties</th>
          <th>Experience</th>
          <th>Contact</th>
        </tr>
      </thead>
      <tbody>
        {{- range .Advocates }}
        <tr data-id="{{ .ID }}">
          <td class="name">{{ .FullName }}</td>
          <td class="city">{{ .City }}</td>
          <td class="degree">{{ .Degree }}</td>
          <td class="specialties">{{ range .Specialties }}<span class="specialty">{{ . }}</span>{{ end }}</td>
          <td class="experience">{{ .ExperienceLabel }}</td>
          <td class="contact"><a href="tel:{{ .PhoneNumber.Digits }}">{{ .PhoneNumber.Formatted }}</a></td>
        </tr>
        {{- end }}
      </tbody>
    </table>
    {{- else }}
    <div class="empty">
      <h3>No advocates found</h3>
    </div>
    {{- end }}
  </main>
</body>
</html>
`))

type pageData struct {
	Advocates []domain.Advocate
}

// Directory handles GET / with a read-only table of every advocate.
func (h *Handler) Directory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.QueryTimeout)
	defer cancel()

	advocates, err := h.Repo.ListAdvocates(ctx)
	if err != nil {
		h.Log.Error("directory page: list advocates failed", zap.Error(err))
		http.Error(w, "Advocates are unavailable right now.", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := directoryPage.Execute(&buf, pageData{Advocates: advocates}); err != nil {
		h.Log.Error("directory page: render failed", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
