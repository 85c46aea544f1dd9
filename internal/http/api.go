package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/CiceroLino/full-stack-technical-assessment/internal/domain"
	"github.com/CiceroLino/full-stack-technical-assessment/internal/service"
)

// Options tunes handler behaviour from configuration.
type Options struct {
	Cookie     CookieConfig
	AutoSignIn bool
	AuthLimit  RateLimitConfig
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	auth     service.AuthService
	sessions service.SessionService
	tasks    service.TaskService
	exports  service.ExportService
	gate     *Gate
	opts     Options
}

// NewHandler builds the handler. exports may be nil when no storage is configured.
func NewHandler(auth service.AuthService, sessions service.SessionService, tasks service.TaskService, exports service.ExportService, opts Options) *Handler {
	return &Handler{
		auth:     auth,
		sessions: sessions,
		tasks:    tasks,
		exports:  exports,
		gate:     NewGate(sessions, opts.Cookie),
		opts:     opts,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(h.gate.Middleware())

	authLimit := func(c *gin.Context) { c.Next() }
	if h.opts.AuthLimit.RequestsPerWindow > 0 && h.opts.AuthLimit.Window > 0 && h.opts.AuthLimit.Burst > 0 {
		authLimit = RateLimitByIP(h.opts.AuthLimit)
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": "ok"})
	})

	api := router.Group("/api")
	{
		api.POST("/auth/sign-up", authLimit, h.signUp)
		api.POST("/auth/sign-in", authLimit, h.signIn)
		api.POST("/auth/logout", h.logout)
		api.GET("/auth/session", h.gate.RequireSession(), h.getSession)

		tasks := api.Group("/tasks", h.gate.RequireSession())
		tasks.POST("", h.createTask)
		tasks.GET("", h.listTasks)
		tasks.GET("/stats", h.taskStats)
		tasks.GET("/:id", h.getTask)
		tasks.PATCH("/:id", h.updateTask)
		tasks.DELETE("/:id", h.deleteTask)
		if h.exports != nil {
			tasks.POST("/export", h.exportTasks)
		}
	}

	h.registerPages(router, authLimit)
}

type signUpRequest struct {
	Email           string `json:"email" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirmPassword"`
	Name            string `json:"name"`
}

type signInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type createTaskRequest struct {
	Title       string            `json:"title"`
	Description *string           `json:"description"`
	Status      domain.TaskStatus `json:"status"`
}

type updateTaskRequest struct {
	Title       *string                `json:"title"`
	Description service.OptionalString `json:"description"`
	Status      *domain.TaskStatus     `json:"status"`
}

type UserResponse struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	EmailVerified bool      `json:"emailVerified"`
	Image         string    `json:"image,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type SessionResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type TaskResponse struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description *string           `json:"description"`
	Status      domain.TaskStatus `json:"status"`
	UserID      string            `json:"userId"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

func (h *Handler) signUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.auth.SignUp(c.Request.Context(), service.SignUpInput{
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Name:            req.Name,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{"user": userToResponse(user)}
	if h.opts.AutoSignIn {
		session, err := h.startSession(c, user.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		resp["session"] = sessionToResponse(session)
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) signIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.ErrUnauthorized)
		return
	}

	user, err := h.auth.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	session, err := h.startSession(c, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":    userToResponse(user),
		"session": sessionToResponse(session),
	})
}

func (h *Handler) getSession(c *gin.Context) {
	session := sessionFrom(c)
	user, err := h.auth.GetUser(c.Request.Context(), session.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":    userToResponse(user),
		"session": sessionToResponse(session),
	})
}

func (h *Handler) logout(c *gin.Context) {
	h.endSession(c)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) createTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.tasks.Create(c.Request.Context(), sessionFrom(c).UserID, service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, taskToResponse(*task))
}

func (h *Handler) listTasks(c *gin.Context) {
	tasks, err := h.tasks.List(c.Request.Context(), sessionFrom(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]TaskResponse, len(tasks))
	for i := range tasks {
		resp[i] = taskToResponse(tasks[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getTask(c *gin.Context) {
	task, err := h.tasks.Get(c.Request.Context(), sessionFrom(c).UserID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, taskToResponse(*task))
}

func (h *Handler) updateTask(c *gin.Context) {
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.tasks.Update(c.Request.Context(), sessionFrom(c).UserID, c.Param("id"), service.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, taskToResponse(*task))
}

func (h *Handler) deleteTask(c *gin.Context) {
	id := c.Param("id")
	if err := h.tasks.Delete(c.Request.Context(), sessionFrom(c).UserID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "deleted": id})
}

func (h *Handler) taskStats(c *gin.Context) {
	stats, err := h.tasks.Stats(c.Request.Context(), sessionFrom(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) exportTasks(c *gin.Context) {
	result, err := h.exports.Export(c.Request.Context(), sessionFrom(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) startSession(c *gin.Context, userID string) (*domain.Session, error) {
	session, err := h.sessions.Issue(c.Request.Context(), userID, service.SessionMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		return nil, err
	}
	setSessionCookie(c, session, h.opts.Cookie)
	return session, nil
}

// endSession revokes the cookie's session if any. The cookie is cleared even
// when revocation fails.
func (h *Handler) endSession(c *gin.Context) {
	if token, err := c.Cookie(SessionCookieName); err == nil && token != "" {
		if err := h.sessions.Revoke(c.Request.Context(), token); err != nil {
			loggerFrom(c).WithError(err).Warn("revoke session")
		}
	}
	clearSessionCookie(c, h.opts.Cookie)
}

func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:            user.ID,
		Email:         user.Email,
		Name:          user.Name,
		EmailVerified: user.EmailVerified,
		Image:         user.Image,
		CreatedAt:     user.CreatedAt,
		UpdatedAt:     user.UpdatedAt,
	}
}

func sessionToResponse(session *domain.Session) SessionResponse {
	return SessionResponse{
		ID:        session.ID,
		UserID:    session.UserID,
		ExpiresAt: session.ExpiresAt,
	}
}

func taskToResponse(task domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		UserID:      task.UserID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}
