// Package prompt renders task-keyed templates with retrieved context
// rows and the user query into system/user prompt pairs.
package prompt

import (
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/raphaelgruber/tablerag/internal/models"
)

// ErrUnknownTask indicates no template is registered for a task name.
var ErrUnknownTask = errors.New("unknown prompt task")

// TaskQuestionAnswer is the default RAG task.
const TaskQuestionAnswer = "question_answer"

// TaskSummarize condenses the retrieved context instead of answering a
// question about it.
const TaskSummarize = "summarize"

// Data is what a template renders with.
type Data struct {
	Context string
	Query   string
}

// Template is one task's prompt pair.
type Template struct {
	Sys  string
	User string
}

var registry = map[string]Template{
	TaskQuestionAnswer: {
		Sys: "You are a helpful assistant. Answer the user's question using only the provided context. " +
			"If the context does not contain the answer, say so.",
		User: "Context information:\n{{.Context}}\n\nQuestion: {{.Query}}\n\nAnswer:",
	},
	TaskSummarize: {
		Sys:  "You are a helpful assistant. Summarize the provided context for the user.",
		User: "Context information:\n{{.Context}}\n\nInstruction: {{.Query}}\n\nSummary:",
	},
}

// Register adds or replaces a task template. Custom tasks let callers
// bring their own prompt shapes without forking the render path.
func Register(task string, tmpl Template) {
	registry[task] = tmpl
}

// Tasks lists the registered task names.
func Tasks() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

// Render renders the task's template with the given context rows and
// query. Context rows are joined with blank lines in rank order.
func Render(task string, contextRows []string, query string) (models.RenderedPrompt, error) {
	tmpl, ok := registry[task]
	if !ok {
		return models.RenderedPrompt{}, fmt.Errorf("%w: %q", ErrUnknownTask, task)
	}

	data := Data{Context: strings.Join(contextRows, "\n\n"), Query: query}

	sys, err := render(task+"/sys", tmpl.Sys, data)
	if err != nil {
		return models.RenderedPrompt{}, err
	}
	user, err := render(task+"/user", tmpl.User, data)
	if err != nil {
		return models.RenderedPrompt{}, err
	}
	return models.RenderedPrompt{SysRendered: sys, UserRendered: user}, nil
}

func render(name, text string, data Data) (string, error) {
	t, err := template.New(name).Parse(text)
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", name, err)
	}
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render template %s: %w", name, err)
	}
	return b.String(), nil
}
