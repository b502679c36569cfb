package core

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// NewRouter constructs the Gin engine with routes wired.
func NewRouter(cfg Config, authService *AuthService, mixService *MixService) *gin.Engine {
	r := gin.Default()

	r.Use(CORSMiddleware(cfg))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "joalin-flowplayer-api"})
	})
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := r.Group("/auth")
	{
		auth.POST("/registar", func(c *gin.Context) {
			var req struct {
				Nome     string `json:"nome"`
				Email    string `json:"email"`
				Password string `json:"password"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
				return
			}
			req.Nome = strings.TrimSpace(req.Nome)
			req.Email = strings.TrimSpace(req.Email)
			if len(req.Nome) < 2 {
				respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "nome deve ter pelo menos 2 caracteres")
				return
			}
			if !strings.Contains(req.Email, "@") {
				respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "email inválido")
				return
			}
			if len(req.Password) < 6 {
				respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "password deve ter pelo menos 6 caracteres")
				return
			}

			user, err := authService.Register(c.Request.Context(), req.Nome, req.Email, req.Password)
			if err != nil {
				if errors.Is(err, ErrEmailTaken) {
					respondError(c, http.StatusBadRequest, "EMAIL_TAKEN", "E-mail já registado.")
					return
				}
				respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Erro ao registar")
				return
			}

			c.JSON(http.StatusOK, gin.H{"id": user.ID, "nome": user.Nome, "email": user.Email})
		})

		// OAuth2 password shape: username/password as form fields, the way
		// the mobile app already talks to the API.
		auth.POST("/token", func(c *gin.Context) {
			username := c.PostForm("username")
			password := c.PostForm("password")
			if username == "" || password == "" {
				respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "username e password são obrigatórios")
				return
			}

			token, err := authService.Login(c.Request.Context(), username, password)
			if err != nil {
				if errors.Is(err, ErrInvalidCredentials) {
					respondError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Credenciais inválidas")
					return
				}
				respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Erro ao iniciar sessão")
				return
			}

			c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
		})
	}

	mixes := r.Group("/mixes")
	mixes.Use(RequireAuth(authService))
	{
		mixes.GET("", func(c *gin.Context) {
			user, ok := currentUser(c)
			if !ok {
				respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Não autenticado")
				return
			}
			list, err := mixService.List(c.Request.Context(), user)
			if err != nil {
				respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "failed to fetch mixes")
				return
			}
			c.JSON(http.StatusOK, list)
		})

		mixes.POST("", func(c *gin.Context) {
			user, ok := currentUser(c)
			if !ok {
				respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Não autenticado")
				return
			}
			req, ok := bindMixBody(c)
			if !ok {
				return
			}
			mix, err := mixService.Create(c.Request.Context(), user, req.Nome, req.FlowCorBase)
			if err != nil {
				respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "failed to create mix")
				return
			}
			c.JSON(http.StatusCreated, mix)
		})

		mixes.PUT("/:id", func(c *gin.Context) {
			user, ok := currentUser(c)
			if !ok {
				respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Não autenticado")
				return
			}
			id, ok := parseID(c, "id")
			if !ok {
				return
			}
			req, ok := bindMixBody(c)
			if !ok {
				return
			}
			mix, err := mixService.Update(c.Request.Context(), user, id, req.Nome, req.FlowCorBase)
			if err != nil {
				if errors.Is(err, ErrMixNotFound) {
					respondError(c, http.StatusNotFound, "NOT_FOUND", "Mix não encontrado")
					return
				}
				respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "failed to update mix")
				return
			}
			c.JSON(http.StatusOK, mix)
		})

		mixes.DELETE("/:id", func(c *gin.Context) {
			user, ok := currentUser(c)
			if !ok {
				respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Não autenticado")
				return
			}
			id, ok := parseID(c, "id")
			if !ok {
				return
			}
			if err := mixService.Delete(c.Request.Context(), user, id); err != nil {
				if errors.Is(err, ErrMixNotFound) {
					respondError(c, http.StatusNotFound, "NOT_FOUND", "Mix não encontrado")
					return
				}
				respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "failed to delete mix")
				return
			}
			c.Status(http.StatusNoContent)
		})

		mixes.POST("/:id/items", func(c *gin.Context) {
			user, ok := currentUser(c)
			if !ok {
				respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Não autenticado")
				return
			}
			id, ok := parseID(c, "id")
			if !ok {
				return
			}
			var req struct {
				MediaTitulo string `json:"media_titulo"`
				MediaTipo   string `json:"media_tipo"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
				return
			}
			req.MediaTitulo = strings.TrimSpace(req.MediaTitulo)
			if req.MediaTitulo == "" {
				respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "media_titulo é obrigatório")
				return
			}
			if !IsValidMediaTipo(req.MediaTipo) {
				respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "media_tipo deve ser 'audio' ou 'video'")
				return
			}
			item, err := mixService.AddItem(c.Request.Context(), user, id, req.MediaTitulo, req.MediaTipo)
			if err != nil {
				if errors.Is(err, ErrMixNotFound) {
					respondError(c, http.StatusNotFound, "NOT_FOUND", "Mix não encontrado")
					return
				}
				respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "failed to add item")
				return
			}
			c.JSON(http.StatusCreated, item)
		})

		mixes.DELETE("/:id/items/:item_id", func(c *gin.Context) {
			user, ok := currentUser(c)
			if !ok {
				respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Não autenticado")
				return
			}
			id, ok := parseID(c, "id")
			if !ok {
				return
			}
			itemID, ok := parseID(c, "item_id")
			if !ok {
				return
			}
			if err := mixService.RemoveItem(c.Request.Context(), user, id, itemID); err != nil {
				if errors.Is(err, ErrMixNotFound) {
					respondError(c, http.StatusNotFound, "NOT_FOUND", "Mix não encontrado")
					return
				}
				if errors.Is(err, ErrItemNotFound) {
					respondError(c, http.StatusNotFound, "NOT_FOUND", "Item não encontrado")
					return
				}
				respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "failed to remove item")
				return
			}
			c.Status(http.StatusNoContent)
		})
	}

	return r
}

type mixBody struct {
	Nome        string `json:"nome"`
	FlowCorBase string `json:"flow_cor_base"`
}

func bindMixBody(c *gin.Context) (mixBody, bool) {
	var req mixBody
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
		return mixBody{}, false
	}
	req.Nome = strings.TrimSpace(req.Nome)
	req.FlowCorBase = strings.TrimSpace(req.FlowCorBase)
	if req.Nome == "" || req.FlowCorBase == "" {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "nome e flow_cor_base são obrigatórios")
		return mixBody{}, false
	}
	return req, true
}

func parseID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid id")
		return 0, false
	}
	return id, true
}
