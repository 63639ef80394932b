package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"todoapp/internal/app/syncctl"
	"todoapp/internal/core/domain"
	"todoapp/pkg/translator"
)

const (
	msgListHeading        = "listHeading"
	msgDeletedListHeading = "deletedListHeading"
	msgEmptyList          = "emptyList"
	msgUndoHint           = "undoHint"
)

var (
	colorSuccess = lipgloss.Color("#2CD7C7")
	colorError   = lipgloss.Color("#E74C3C")
	colorMuted   = lipgloss.Color("#5C7A84")
	colorAccent  = lipgloss.Color("#20B9B4")
)

type renderer struct {
	out  io.Writer
	lang string

	heading lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	muted   lipgloss.Style
	done    lipgloss.Style
	hint    lipgloss.Style
}

// newRenderer sizes its colour profile to out, so output to a pipe or a
// buffer is plain text.
func newRenderer(out io.Writer, lang string) *renderer {
	r := lipgloss.NewRenderer(out)
	return &renderer{
		out:     out,
		lang:    lang,
		heading: r.NewStyle().Bold(true).Foreground(colorAccent),
		success: r.NewStyle().Foreground(colorSuccess),
		failure: r.NewStyle().Foreground(colorError).Bold(true),
		muted:   r.NewStyle().Foreground(colorMuted),
		done:    r.NewStyle().Foreground(colorMuted).Strikethrough(true),
		hint:    r.NewStyle().Italic(true).Foreground(colorAccent),
	}
}

func (r *renderer) Render(state syncctl.State) {
	r.notification(state.Notification)
	r.list(translator.Localize(r.lang, msgListHeading, nil)+" ("+string(state.Filter)+")", state.Todos)
	if state.ShowDeleted {
		r.list(translator.Localize(r.lang, msgDeletedListHeading, nil), state.Deleted)
	}
}

func (r *renderer) notification(note *syncctl.Notification) {
	if note == nil {
		return
	}

	style := r.success
	if note.Status == syncctl.NotificationError {
		style = r.failure
	}
	fmt.Fprintln(r.out, style.Render(note.Message))

	if note.HasUndo() {
		fmt.Fprintln(r.out, r.hint.Render(translator.Localize(r.lang, msgUndoHint, map[string]any{
			"Label": note.ActionLabel,
			"ID":    note.TodoID,
		})))
	}
	fmt.Fprintln(r.out)
}

func (r *renderer) list(heading string, todos []domain.Todo) {
	fmt.Fprintln(r.out, r.heading.Render(heading))
	if len(todos) == 0 {
		fmt.Fprintln(r.out, "  "+r.muted.Render(translator.Localize(r.lang, msgEmptyList, nil)))
		return
	}

	for _, todo := range todos {
		box, title := "[ ]", todo.Title
		if todo.Completed {
			box, title = "[x]", r.done.Render(todo.Title)
		}
		fmt.Fprintf(r.out, "  %s %s  %s\n", box, title, r.muted.Render(todo.ID))
	}
}
