package http

import (
	"errors"
	"net/http"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/CiceroLino/full-stack-technical-assessment/internal/domain"
	"github.com/CiceroLino/full-stack-technical-assessment/internal/service"
	"github.com/CiceroLino/full-stack-technical-assessment/internal/view"
)

const recentTaskCount = 5

func (h *Handler) registerPages(router *gin.Engine, authLimit gin.HandlerFunc) {
	router.GET("/", h.homePage)
	router.GET("/sign-in", h.signInPage)
	router.POST("/sign-in", authLimit, h.signInSubmit)
	router.GET("/sign-up", h.signUpPage)
	router.POST("/sign-up", authLimit, h.signUpSubmit)
	router.POST("/sign-out", h.signOutSubmit)

	dash := router.Group("/dashboard")
	{
		dash.GET("", h.dashboardPage)
		dash.GET("/stats", h.dashboardStats)
		dash.GET("/tasks", h.tasksPage)
		dash.POST("/tasks", h.tasksCreate)
		dash.POST("/tasks/:id", h.tasksEdit)
		dash.POST("/tasks/:id/delete", h.tasksDelete)
		dash.POST("/tasks/:id/status", h.tasksStatus)
	}
	router.GET("/tasks", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/dashboard/tasks")
	})
}

func render(c *gin.Context, status int, component templ.Component) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if err := component.Render(c.Request.Context(), c.Writer); err != nil {
		loggerFrom(c).WithError(err).Error("render page")
	}
}

// pageUser loads the user behind the gate's session, or nil on public pages.
func (h *Handler) pageUser(c *gin.Context) (*domain.User, error) {
	session := sessionFrom(c)
	if session == nil {
		return nil, domain.ErrUnauthenticated
	}
	return h.auth.GetUser(c.Request.Context(), session.UserID)
}

// pageError redirects to sign-in when the user vanished and answers 500 otherwise.
func pageError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrUnauthenticated) {
		c.Redirect(http.StatusFound, signInPath)
		return
	}
	loggerFrom(c).WithError(err).Error("page request failed")
	c.String(http.StatusInternalServerError, "Internal Server Error")
}

func (h *Handler) homePage(c *gin.Context) {
	render(c, http.StatusOK, view.HomePage(h.optionalUser(c)))
}

// optionalUser resolves the signed-in user on public pages. Lookup failures
// render the page anonymously.
func (h *Handler) optionalUser(c *gin.Context) *domain.User {
	token, err := c.Cookie(SessionCookieName)
	if err != nil || token == "" {
		return nil
	}
	session, err := h.sessions.Validate(c.Request.Context(), token)
	if err != nil {
		if !errors.Is(err, domain.ErrUnauthenticated) {
			loggerFrom(c).WithError(err).Error("session validation failed")
		}
		return nil
	}
	user, err := h.auth.GetUser(c.Request.Context(), session.UserID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			loggerFrom(c).WithError(err).Error("load user for home page")
		}
		return nil
	}
	return user
}

func (h *Handler) signInPage(c *gin.Context) {
	render(c, http.StatusOK, view.SignInPage(view.SignInForm{}))
}

func (h *Handler) signInSubmit(c *gin.Context) {
	email := c.PostForm("email")
	user, err := h.auth.SignIn(c.Request.Context(), email, c.PostForm("password"))
	if err != nil {
		render(c, statusFor(err), view.SignInPage(view.SignInForm{Email: email, Error: errorMessage(err)}))
		return
	}
	if _, err := h.startSession(c, user.ID); err != nil {
		render(c, statusFor(err), view.SignInPage(view.SignInForm{Email: email, Error: errorMessage(err)}))
		return
	}
	c.Redirect(http.StatusSeeOther, dashboardPath)
}

func (h *Handler) signUpPage(c *gin.Context) {
	render(c, http.StatusOK, view.SignUpPage(view.SignUpForm{}))
}

func (h *Handler) signUpSubmit(c *gin.Context) {
	form := view.SignUpForm{
		Email: c.PostForm("email"),
		Name:  c.PostForm("name"),
	}
	user, err := h.auth.SignUp(c.Request.Context(), service.SignUpInput{
		Email:           form.Email,
		Password:        c.PostForm("password"),
		ConfirmPassword: c.PostForm("confirmPassword"),
		Name:            form.Name,
	})
	if err != nil {
		form.Error = errorMessage(err)
		render(c, statusFor(err), view.SignUpPage(form))
		return
	}

	if !h.opts.AutoSignIn {
		c.Redirect(http.StatusSeeOther, signInPath)
		return
	}
	if _, err := h.startSession(c, user.ID); err != nil {
		form.Error = errorMessage(err)
		render(c, statusFor(err), view.SignUpPage(form))
		return
	}
	c.Redirect(http.StatusSeeOther, dashboardPath)
}

func (h *Handler) signOutSubmit(c *gin.Context) {
	h.endSession(c)
	c.Redirect(http.StatusSeeOther, signInPath)
}

func (h *Handler) dashboardPage(c *gin.Context) {
	user, err := h.pageUser(c)
	if err != nil {
		pageError(c, err)
		return
	}
	stats, err := h.tasks.Stats(c.Request.Context(), user.ID)
	if err != nil {
		pageError(c, err)
		return
	}
	tasks, err := h.tasks.List(c.Request.Context(), user.ID)
	if err != nil {
		pageError(c, err)
		return
	}
	if len(tasks) > recentTaskCount {
		tasks = tasks[:recentTaskCount]
	}
	render(c, http.StatusOK, view.DashboardPage(user, stats, tasks))
}

func (h *Handler) dashboardStats(c *gin.Context) {
	stats, err := h.tasks.Stats(c.Request.Context(), sessionFrom(c).UserID)
	if err != nil {
		pageError(c, err)
		return
	}

	sse := datastar.NewSSE(c.Writer, c.Request)
	if err := sse.PatchElementTempl(view.StatsCard(stats), datastar.WithSelectorID(view.StatsCardID)); err != nil {
		loggerFrom(c).WithError(err).Warn("patch stats card")
	}
}

func (h *Handler) tasksPage(c *gin.Context) {
	h.renderTasks(c, http.StatusOK, view.TaskForm{})
}

func (h *Handler) renderTasks(c *gin.Context, status int, form view.TaskForm) {
	user, err := h.pageUser(c)
	if err != nil {
		pageError(c, err)
		return
	}
	tasks, err := h.tasks.List(c.Request.Context(), user.ID)
	if err != nil {
		pageError(c, err)
		return
	}
	render(c, status, view.TasksPage(user, tasks, form))
}

func (h *Handler) tasksCreate(c *gin.Context) {
	form := view.TaskForm{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
	}
	description := form.Description
	_, err := h.tasks.Create(c.Request.Context(), sessionFrom(c).UserID, service.CreateTaskInput{
		Title:       form.Title,
		Description: &description,
	})
	if err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			pageError(c, err)
			return
		}
		form.Error = errorMessage(err)
		h.renderTasks(c, statusFor(err), form)
		return
	}
	c.Redirect(http.StatusSeeOther, "/dashboard/tasks")
}

func (h *Handler) tasksEdit(c *gin.Context) {
	title := c.PostForm("title")
	_, err := h.tasks.Update(c.Request.Context(), sessionFrom(c).UserID, c.Param("id"), service.UpdateTaskInput{
		Title:       &title,
		Description: service.OptionalString{Set: true, Value: stringPtr(c.PostForm("description"))},
	})
	h.afterTaskChange(c, err)
}

func stringPtr(s string) *string { return &s }

func (h *Handler) tasksDelete(c *gin.Context) {
	err := h.tasks.Delete(c.Request.Context(), sessionFrom(c).UserID, c.Param("id"))
	h.afterTaskChange(c, err)
}

func (h *Handler) tasksStatus(c *gin.Context) {
	status := domain.TaskStatus(c.PostForm("status"))
	_, err := h.tasks.Update(c.Request.Context(), sessionFrom(c).UserID, c.Param("id"), service.UpdateTaskInput{
		Status: &status,
	})
	h.afterTaskChange(c, err)
}

func (h *Handler) afterTaskChange(c *gin.Context, err error) {
	if err == nil {
		c.Redirect(http.StatusSeeOther, "/dashboard/tasks")
		return
	}
	if statusFor(err) == http.StatusInternalServerError {
		pageError(c, err)
		return
	}
	h.renderTasks(c, statusFor(err), view.TaskForm{Error: errorMessage(err)})
}
