package prompt

import (
	"errors"
	"strings"
	"testing"
)

func TestRender_QuestionAnswer(t *testing.T) {
	got, err := Render(TaskQuestionAnswer, []string{"first chunk", "second chunk"}, "what is this?")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if got.SysRendered == "" {
		t.Error("SysRendered is empty")
	}
	if got.UserRendered == "" {
		t.Error("UserRendered is empty")
	}
	for _, want := range []string{"first chunk", "second chunk", "what is this?"} {
		if !strings.Contains(got.UserRendered, want) {
			t.Errorf("UserRendered missing %q:\n%s", want, got.UserRendered)
		}
	}
	// Context rows stay in rank order.
	if strings.Index(got.UserRendered, "first chunk") > strings.Index(got.UserRendered, "second chunk") {
		t.Error("context rows reordered")
	}
}

func TestRender_EmptyContext(t *testing.T) {
	got, err := Render(TaskQuestionAnswer, nil, "still a question")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got.UserRendered == "" {
		t.Error("UserRendered must be non-empty even with zero context rows")
	}
}

func TestRender_UnknownTask(t *testing.T) {
	if _, err := Render("interpretive_dance", nil, "q"); !errors.Is(err, ErrUnknownTask) {
		t.Errorf("Render() error = %v, want ErrUnknownTask", err)
	}
}

func TestRegister_CustomTask(t *testing.T) {
	Register("echo", Template{User: "{{.Query}}"})
	got, err := Render("echo", nil, "just the query")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got.UserRendered != "just the query" {
		t.Errorf("UserRendered = %q", got.UserRendered)
	}
	if got.SysRendered != "" {
		t.Errorf("SysRendered = %q, want empty", got.SysRendered)
	}
}
