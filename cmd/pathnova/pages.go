package main

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/labstack/echo/v4"
)

type pageData struct {
	Title    string
	Name     string
	SignedIn bool
}

const layout = `<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<header><a href="/">PathNova</a></header>
<main>{{template "content" .}}</main>
</body>
</html>`

var (
	homePage = mustPage(`{{define "content"}}
<h1>Your career path, planned.</h1>
<p>Personal study plans from one short questionnaire.</p>
{{if .SignedIn}}<a href="/dashboard">Go to dashboard</a>{{else}}<a href="/auth">Get started</a>{{end}}
{{end}}`)

	authPage = mustPage(`{{define "content"}}
<h1>Sign in</h1>
<p>Choose a sign-in method to continue to your study plan.</p>
<a href="/auth/google/start">Continue with Google</a>
<p><button disabled>More providers coming soon</button></p>
{{end}}`)

	dashboardPage = mustPage(`{{define "content"}}
<h1>Dashboard</h1>
<p>Welcome, {{.Name}}!</p>
<form method="post" action="/logout"><button type="submit">Log Out</button></form>
{{end}}`)
)

func mustPage(content string) *template.Template {
	return template.Must(template.Must(template.New("layout").Parse(layout)).Parse(content))
}

func render(c echo.Context, status int, page *template.Template, data pageData) error {
	var buf bytes.Buffer
	if err := page.Execute(&buf, data); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "render page").SetInternal(err)
	}
	return c.HTMLBlob(status, buf.Bytes())
}
