package view

import (
	"context"

	"github.com/a-h/templ"

	"github.com/CiceroLino/full-stack-technical-assessment/internal/domain"
)

const datastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0/bundles/datastar.js"

// Layout wraps body in the shared page chrome. user may be nil.
func Layout(title string, user *domain.User, body templ.Component) templ.Component {
	return component(func(ctx context.Context, w *writer) {
		w.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		w.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		w.raw(`<title>`)
		w.text(title)
		w.raw(` | Task Tracker</title>`)
		w.raw(`<script type="module" src="` + datastarScript + `"></script>`)
		w.raw(`</head><body><header><nav><a href="/">Task Tracker</a>`)
		if user != nil {
			w.raw(` <a href="/dashboard">Dashboard</a> <a href="/dashboard/tasks">Tasks</a> <span class="user">`)
			w.text(displayName(user))
			w.raw(`</span><form method="post" action="/sign-out" class="inline"><button type="submit">Sign out</button></form>`)
		} else {
			w.raw(` <a href="/sign-in">Sign in</a> <a href="/sign-up">Sign up</a>`)
		}
		w.raw(`</nav></header><main>`)
		w.render(ctx, body)
		w.raw(`</main></body></html>`)
	})
}

func displayName(user *domain.User) string {
	if user.Name != "" {
		return user.Name
	}
	return user.Email
}

func errorBanner(w *writer, msg string) {
	if msg == "" {
		return
	}
	w.raw(`<p class="error" role="alert">`)
	w.text(msg)
	w.raw(`</p>`)
}

// HomePage is the public landing page.
func HomePage(user *domain.User) templ.Component {
	body := component(func(ctx context.Context, w *writer) {
		w.raw(`<h1>Task Tracker</h1><p>Keep track of what you are working on.</p>`)
		if user != nil {
			w.raw(`<p><a href="/dashboard">Go to your dashboard</a></p>`)
		} else {
			w.raw(`<p><a href="/sign-up">Create an account</a> or <a href="/sign-in">sign in</a>.</p>`)
		}
	})
	return Layout("Home", user, body)
}
