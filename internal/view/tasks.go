package view

import (
	"context"

	"github.com/a-h/templ"

	"github.com/CiceroLino/full-stack-technical-assessment/internal/domain"
)

// StatsCardID is the element id patched by the stats refresh stream.
const StatsCardID = "stats-card"

var statusLabels = map[domain.TaskStatus]string{
	domain.TaskStatusPending:    "Pending",
	domain.TaskStatusInProgress: "In progress",
	domain.TaskStatusCompleted:  "Completed",
}

var statusOrder = []domain.TaskStatus{
	domain.TaskStatusPending,
	domain.TaskStatusInProgress,
	domain.TaskStatusCompleted,
}

// StatsCard renders the per-status counters and polls for fresh numbers.
func StatsCard(stats domain.TaskStats) templ.Component {
	return component(func(ctx context.Context, w *writer) {
		w.rawf(`<section id="%s" data-on-interval__duration.30s="@get('/dashboard/stats')">`, StatsCardID)
		w.rawf(`<div class="stat"><span>Total</span><strong>%d</strong></div>`, stats.Total)
		w.rawf(`<div class="stat"><span>Pending</span><strong>%d</strong></div>`, stats.Pending)
		w.rawf(`<div class="stat"><span>In progress</span><strong>%d</strong></div>`, stats.InProgress)
		w.rawf(`<div class="stat"><span>Completed</span><strong>%d</strong></div>`, stats.Completed)
		w.raw(`</section>`)
	})
}

func DashboardPage(user *domain.User, stats domain.TaskStats, recent []domain.Task) templ.Component {
	body := component(func(ctx context.Context, w *writer) {
		w.raw(`<h1>Welcome, `)
		w.text(displayName(user))
		w.raw(`</h1>`)
		w.render(ctx, StatsCard(stats))
		w.raw(`<h2>Recent tasks</h2>`)
		if len(recent) == 0 {
			w.raw(`<p>No tasks yet. <a href="/dashboard/tasks">Create your first task</a>.</p>`)
			return
		}
		w.raw(`<ul class="recent">`)
		for _, t := range recent {
			w.raw(`<li><span class="title">`)
			w.text(t.Title)
			w.raw(`</span> <span class="status">`)
			w.text(statusLabel(t.Status))
			w.raw(`</span></li>`)
		}
		w.raw(`</ul><p><a href="/dashboard/tasks">All tasks</a></p>`)
	})
	return Layout("Dashboard", user, body)
}

type TaskForm struct {
	Title       string
	Description string
	Error       string
}

func TasksPage(user *domain.User, tasks []domain.Task, form TaskForm) templ.Component {
	body := component(func(ctx context.Context, w *writer) {
		w.raw(`<h1>Tasks</h1>`)
		errorBanner(w, form.Error)
		w.raw(`<form method="post" action="/dashboard/tasks" class="new-task">`)
		w.raw(`<label>Title <input type="text" name="title" required minlength="3" maxlength="255" value="`)
		w.text(form.Title)
		w.raw(`"></label><label>Description <textarea name="description">`)
		w.text(form.Description)
		w.raw(`</textarea></label><button type="submit">Add task</button></form>`)

		if len(tasks) == 0 {
			w.raw(`<p>No tasks yet.</p>`)
			return
		}
		w.raw(`<table><thead><tr><th>Title</th><th>Description</th><th>Status</th><th></th><th></th></tr></thead><tbody>`)
		for _, t := range tasks {
			taskRow(w, t)
		}
		w.raw(`</tbody></table>`)
	})
	return Layout("Tasks", user, body)
}

func taskRow(w *writer, t domain.Task) {
	id := templ.EscapeString(t.ID)
	w.raw(`<tr id="task-` + id + `"><td>`)
	w.text(t.Title)
	w.raw(`</td><td>`)
	if t.Description != nil {
		w.text(*t.Description)
	}
	w.raw(`</td><td><form method="post" action="/dashboard/tasks/` + id + `/status"><select name="status">`)
	for _, s := range statusOrder {
		selected := ""
		if s == t.Status {
			selected = " selected"
		}
		w.rawf(`<option value="%s"%s>`, templ.EscapeString(string(s)), selected)
		w.text(statusLabel(s))
		w.raw(`</option>`)
	}
	w.raw(`</select><button type="submit">Update</button></form></td>`)
	taskEditForm(w, id, t)
	w.raw(`<td><form method="post" action="/dashboard/tasks/` + id + `/delete"><button type="submit">Delete</button></form></td></tr>`)
}

// taskEditForm posts title and description changes; id is already escaped.
func taskEditForm(w *writer, id string, t domain.Task) {
	w.raw(`<td><details><summary>Edit</summary><form method="post" action="/dashboard/tasks/` + id + `" class="edit-task">`)
	w.raw(`<label>Title <input type="text" name="title" required minlength="3" maxlength="255" value="`)
	w.text(t.Title)
	w.raw(`"></label><label>Description <textarea name="description">`)
	if t.Description != nil {
		w.text(*t.Description)
	}
	w.raw(`</textarea></label><button type="submit">Save</button></form></details></td>`)
}

func statusLabel(s domain.TaskStatus) string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}
