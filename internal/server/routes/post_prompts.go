package routes

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/promptdeck/backend/internal/queue"
	"github.com/promptdeck/backend/internal/server/middleware"
	"github.com/promptdeck/backend/internal/store"
	"github.com/promptdeck/backend/pkg/common"
	"github.com/promptdeck/backend/pkg/logger"
	"github.com/promptdeck/backend/pkg/template"
)

type variableBody struct {
	Name         string   `json:"name" validate:"required"`
	Type         string   `json:"type"`
	DefaultValue string   `json:"default_value"`
	Options      []string `json:"options"`
}

// toVariables converts request variables to the domain type. Unknown
// types are an error so clients notice typos instead of silently getting
// text inputs.
func toVariables(bodies []variableBody) ([]common.Variable, error) {
	variables := make([]common.Variable, 0, len(bodies))
	for _, b := range bodies {
		t := common.VariableType(b.Type)
		if b.Type == "" {
			t = common.VariableTypeText
		}
		if !t.Valid() {
			return nil, errors.New("unknown variable type: " + b.Type)
		}
		variables = append(variables, common.Variable{
			Name:         b.Name,
			Type:         t,
			DefaultValue: b.DefaultValue,
			Options:      b.Options,
		})
	}
	return variables, nil
}

func CreatePromptHandler(c echo.Context) error {
	type createPromptBody struct {
		Title      string         `json:"title" validate:"required,min=3,max=200"`
		Content    string         `json:"content" validate:"required,min=10,max=10000"`
		Category   string         `json:"category" validate:"omitempty,min=1,max=50"`
		Tags       []string       `json:"tags" validate:"omitempty,dive,min=1,max=30"`
		IsFavorite bool           `json:"is_favorite"`
		Variables  []variableBody `json:"variables" validate:"omitempty,dive"`
	}

	type createPromptResponse struct {
		Message string         `json:"message"`
		Prompt  *common.Prompt `json:"prompt,omitempty"`
	}

	data := new(createPromptBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, createPromptResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, createPromptResponse{
			Message: "Invalid request body",
		})
	}

	variables, err := toVariables(data.Variables)
	if err != nil {
		return c.JSON(http.StatusBadRequest, createPromptResponse{
			Message: err.Error(),
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	prompt, err := app.Store.CreatePrompt(ctx, common.Prompt{
		Title:      data.Title,
		Content:    data.Content,
		Category:   data.Category,
		Tags:       data.Tags,
		IsFavorite: data.IsFavorite,
		// Definitions follow the placeholders actually referenced in the
		// content; submitted ones are kept where names match.
		Variables: template.Reconcile(data.Content, variables),
	})
	if err != nil {
		logger.Error("Failed to create prompt", "err", err)
		return c.JSON(http.StatusInternalServerError, createPromptResponse{
			Message: "Internal server error",
		})
	}

	queue.PublishGalaxyRefresh(app.Queue, "prompt_created", prompt.ID)

	return c.JSON(http.StatusOK, createPromptResponse{
		Message: "Prompt created successfully",
		Prompt:  &prompt,
	})
}

func ToggleFavoriteHandler(c echo.Context) error {
	type toggleFavoriteParams struct {
		ID string `param:"id" validate:"required"`
	}

	type toggleFavoriteResponse struct {
		Message    string `json:"message"`
		IsFavorite bool   `json:"is_favorite"`
	}

	params := new(toggleFavoriteParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, toggleFavoriteResponse{
			Message: "Invalid request params",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, toggleFavoriteResponse{
			Message: "Invalid request params",
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	isFavorite, err := app.Store.ToggleFavorite(ctx, params.ID)
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, toggleFavoriteResponse{
			Message: "Prompt not found",
		})
	}
	if err != nil {
		logger.Error("Failed to toggle favorite", "id", params.ID, "err", err)
		return c.JSON(http.StatusInternalServerError, toggleFavoriteResponse{
			Message: "Internal server error",
		})
	}

	queue.PublishGalaxyRefresh(app.Queue, "favorite_toggled", params.ID)

	return c.JSON(http.StatusOK, toggleFavoriteResponse{
		Message: "Favorite updated",
		IsFavorite: isFavorite,
	})
}

// UsePromptHandler renders a prompt with the supplied variable values and
// bumps its usage counter. Placeholders without a usable value stay
// literal and are reported back so the client can prompt for them.
func UsePromptHandler(c echo.Context) error {
	type usePromptBody struct {
		ID     string            `param:"id" validate:"required"`
		Values map[string]string `json:"values"`
	}

	type usePromptResponse struct {
		Message  string   `json:"message"`
		Text     string   `json:"text,omitempty"`
		Missing  []string `json:"missing,omitempty"`
		UseCount int      `json:"use_count,omitempty"`
	}

	data := new(usePromptBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, usePromptResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, usePromptResponse{
			Message: "Invalid request body",
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	prompt, err := app.Store.GetPrompt(ctx, data.ID)
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, usePromptResponse{
			Message: "Prompt not found",
		})
	}
	if err != nil {
		logger.Error("Failed to load prompt", "id", data.ID, "err", err)
		return c.JSON(http.StatusInternalServerError, usePromptResponse{
			Message: "Internal server error",
		})
	}

	// Stored defaults apply wherever the request does not supply a value.
	values := make(map[string]string, len(prompt.Variables)+len(data.Values))
	for _, v := range prompt.Variables {
		if v.DefaultValue != "" {
			values[v.Name] = v.DefaultValue
		}
	}
	for name, value := range data.Values {
		values[name] = value
	}

	text, missing := template.Preview(prompt.Content, values)

	useCount, err := app.Store.IncrementUseCount(ctx, data.ID)
	if err != nil {
		logger.Error("Failed to increment use count", "id", data.ID, "err", err)
		return c.JSON(http.StatusInternalServerError, usePromptResponse{
			Message: "Internal server error",
		})
	}

	queue.PublishGalaxyRefresh(app.Queue, "prompt_used", data.ID)

	return c.JSON(http.StatusOK, usePromptResponse{
		Message:  "Prompt rendered",
		Text:     text,
		Missing:  missing,
		UseCount: useCount,
	})
}
