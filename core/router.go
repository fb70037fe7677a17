package core

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// NewRouter constructs the Gin engine with routes wired.
//
// The three auth endpoints are public; everything under /api sits behind the
// bearer-token gate. Authentication failures carry deliberately generic
// messages so clients cannot tell which check failed.
func NewRouter(cfg Config, authService *AuthService, tokens *TokenService, taskRepo TaskRepository, userRepo UserRepository) *gin.Engine {
	r := gin.Default()

	r.Use(OriginRefererMiddleware(cfg))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/register", func(c *gin.Context) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
			return
		}

		user, err := authService.Register(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, ErrValidation):
				respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "username and password are required")
			case errors.Is(err, ErrUsernameTaken):
				respondError(c, http.StatusBadRequest, "CONFLICT", "user already exists")
			default:
				respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "registration failed")
			}
			return
		}

		c.JSON(http.StatusCreated, user)
	})

	r.POST("/login", func(c *gin.Context) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
			return
		}

		pair, err := authService.Login(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidCredentials):
				respondError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid username or password")
			default:
				respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "login failed")
			}
			return
		}

		c.JSON(http.StatusOK, pair)
	})

	r.POST("/refresh", func(c *gin.Context) {
		var req struct {
			RefreshToken string `json:"refresh_token"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
			return
		}

		access, err := authService.Refresh(c.Request.Context(), req.RefreshToken)
		if err != nil {
			if errors.Is(err, ErrSecretUnavailable) {
				respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "refresh failed")
			} else {
				respondError(c, http.StatusUnauthorized, "INVALID_TOKEN", "invalid refresh token")
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{"access_token": access})
	})

	api := r.Group("/api")
	api.Use(RequireAccessToken(tokens))
	{
		api.GET("/users/me", func(c *gin.Context) {
			subject, ok := SubjectFromContext(c)
			if !ok {
				respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
				return
			}
			u, err := userRepo.FindByUsername(c.Request.Context(), subject)
			if err != nil {
				if errors.Is(err, ErrUserNotFound) {
					respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
				} else {
					respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "lookup failed")
				}
				return
			}
			c.JSON(http.StatusOK, gin.H{
				"id":         u.ID,
				"username":   u.Username,
				"created_at": u.CreatedAt,
			})
		})

		api.GET("/tasks", func(c *gin.Context) {
			subject, _ := SubjectFromContext(c)
			tasks, err := taskRepo.ListByOwner(c.Request.Context(), subject)
			if err != nil {
				respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "failed to list tasks")
				return
			}
			c.JSON(http.StatusOK, tasks)
		})

		api.POST("/tasks", func(c *gin.Context) {
			var req struct {
				Title     string `json:"title"`
				Completed bool   `json:"completed"`
			}
			if err := c.ShouldBindJSON(&req); err != nil || req.Title == "" {
				respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "title is required")
				return
			}
			subject, _ := SubjectFromContext(c)
			task, err := taskRepo.Create(c.Request.Context(), subject, req.Title, req.Completed)
			if err != nil {
				respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "failed to create task")
				return
			}
			c.JSON(http.StatusCreated, task)
		})

		api.PUT("/tasks/:id", func(c *gin.Context) {
			id, err := uuid.Parse(c.Param("id"))
			if err != nil {
				respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid task id")
				return
			}
			var req struct {
				Title     string `json:"title"`
				Completed bool   `json:"completed"`
			}
			if err := c.ShouldBindJSON(&req); err != nil || req.Title == "" {
				respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "title is required")
				return
			}
			subject, _ := SubjectFromContext(c)
			task, err := taskRepo.Update(c.Request.Context(), subject, id, req.Title, req.Completed)
			if err != nil {
				if errors.Is(err, ErrTaskNotFound) {
					respondError(c, http.StatusNotFound, "NOT_FOUND", "task not found")
				} else {
					respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "failed to update task")
				}
				return
			}
			c.JSON(http.StatusOK, task)
		})

		api.DELETE("/tasks/:id", func(c *gin.Context) {
			id, err := uuid.Parse(c.Param("id"))
			if err != nil {
				respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid task id")
				return
			}
			subject, _ := SubjectFromContext(c)
			if err := taskRepo.Delete(c.Request.Context(), subject, id); err != nil {
				if errors.Is(err, ErrTaskNotFound) {
					respondError(c, http.StatusNotFound, "NOT_FOUND", "task not found")
				} else {
					respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "failed to delete task")
				}
				return
			}
			c.Status(http.StatusNoContent)
		})
	}

	return r
}
