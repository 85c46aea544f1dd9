package view

import (
	"context"

	"github.com/a-h/templ"
)

type SignInForm struct {
	Email string
	Error string
}

type SignUpForm struct {
	Email string
	Name  string
	Error string
}

func SignInPage(form SignInForm) templ.Component {
	body := component(func(ctx context.Context, w *writer) {
		w.raw(`<h1>Sign in</h1>`)
		errorBanner(w, form.Error)
		w.raw(`<form method="post" action="/sign-in">`)
		w.raw(`<label>Email <input type="email" name="email" required value="`)
		w.text(form.Email)
		w.raw(`"></label>`)
		w.raw(`<label>Password <input type="password" name="password" required></label>`)
		w.raw(`<button type="submit">Sign in</button></form>`)
		w.raw(`<p>No account yet? <a href="/sign-up">Sign up</a></p>`)
	})
	return Layout("Sign in", nil, body)
}

func SignUpPage(form SignUpForm) templ.Component {
	body := component(func(ctx context.Context, w *writer) {
		w.raw(`<h1>Create an account</h1>`)
		errorBanner(w, form.Error)
		w.raw(`<form method="post" action="/sign-up">`)
		w.raw(`<label>Name <input type="text" name="name" value="`)
		w.text(form.Name)
		w.raw(`"></label>`)
		w.raw(`<label>Email <input type="email" name="email" required value="`)
		w.text(form.Email)
		w.raw(`"></label>`)
		w.raw(`<label>Password <input type="password" name="password" required minlength="8"></label>`)
		w.raw(`<label>Confirm password <input type="password" name="confirmPassword" required></label>`)
		w.raw(`<button type="submit">Sign up</button></form>`)
		w.raw(`<p>Already registered? <a href="/sign-in">Sign in</a></p>`)
	})
	return Layout("Sign up", nil, body)
}
