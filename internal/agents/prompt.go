package agents

import (
	"strings"
	"text/template"
)

var systemTemplate = template.Must(template.New("system").Parse(
	`You are the {{.Role}}.

Goal: {{.Goal}}

{{.Backstory}}

{{.Instructions}}`))

var taskTemplate = template.Must(template.New("task").Parse(
	`Subject: {{.Subject}}

## Task
{{.Task.Description}}

## Expected output
{{.Task.ExpectedOutput}}
{{- if .Knowledge}}

## Well documents
{{.Knowledge}}
{{- end}}
{{- if .Research}}

## External research
{{.Research}}
{{- end}}
{{- range .Previous}}

## {{.Title}} ({{.Role}})
{{.Content}}
{{- end}}
`))

type taskPrompt struct {
	Subject   string
	Task      TaskSpec
	Knowledge string
	Research  string
	Previous  []Section
}

func renderSystem(a AgentSpec) (string, error) {
	var b strings.Builder
	if err := systemTemplate.Execute(&b, a); err != nil {
		return "", err
	}
	return strings.TrimSpace(b.String()), nil
}

func renderTask(p taskPrompt) (string, error) {
	var b strings.Builder
	if err := taskTemplate.Execute(&b, p); err != nil {
		return "", err
	}
	return b.String(), nil
}
