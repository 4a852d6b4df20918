package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"lifelog/internal/domain"
	"lifelog/internal/engine"
	"lifelog/internal/repo"
)

func registerActivities(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "log-activity",
		Method:        http.MethodPost,
		Path:          "/activities",
		Summary:       "Log activity",
		DefaultStatus: http.StatusCreated,
		Errors: []int{
			http.StatusBadRequest,
			http.StatusForbidden,
			http.StatusNotFound,
			http.StatusInternalServerError,
		},
	}, func(ctx context.Context, input *struct {
		Body CreateActivityRequest `json:"body"`
	}) (*struct {
		Body CreatedResponse `json:"body"`
	}, error) {
		a, err := e.LogActivity(ctx, engine.LogActivityOptions{
			TypeID:      input.Body.TypeID,
			Status:      input.Body.Status,
			Description: input.Body.Description,
			Timestamp:   input.Body.Timestamp,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body CreatedResponse `json:"body"`
		}{Body: CreatedResponse{NewID: a.ID}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-activities",
		Method:      http.MethodGet,
		Path:        "/activities",
		Summary:     "List logged activities",
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Limit int `query:"limit" default:"10" minimum:"1" maximum:"500"`
		Page  int `query:"page" default:"1" minimum:"1"`
	}) (*struct {
		Body []ActivityHistoryEntry `json:"body"`
	}, error) {
		rows, err := e.Repo.ListActivities(ctx, input.Limit, (input.Page-1)*input.Limit)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []ActivityHistoryEntry `json:"body"`
		}{Body: historyEntries(rows)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-activities-by-type",
		Method:      http.MethodGet,
		Path:        "/activities/by-type/{type_id}",
		Summary:     "List logged activities for one type",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		TypeID int64 `path:"type_id"`
		Limit  int   `query:"limit" default:"10" minimum:"1" maximum:"500"`
		Page   int   `query:"page" default:"1" minimum:"1"`
	}) (*struct {
		Body []ActivityHistoryEntry `json:"body"`
	}, error) {
		if _, err := e.Repo.GetActivityType(ctx, input.TypeID); err != nil {
			return nil, handleError(err)
		}
		rows, err := e.Repo.ListActivitiesByType(ctx, input.TypeID, input.Limit, (input.Page-1)*input.Limit)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []ActivityHistoryEntry `json:"body"`
		}{Body: historyEntries(rows)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-activity",
		Method:      http.MethodGet,
		Path:        "/activities/{id}",
		Summary:     "Get logged activity",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID int64 `path:"id"`
	}) (*struct {
		Body domain.Activity `json:"body"`
	}, error) {
		a, err := e.Repo.GetActivity(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Activity `json:"body"`
		}{Body: a}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-activity",
		Method:      http.MethodPut,
		Path:        "/activities/{id}",
		Summary:     "Update logged activity",
		Errors: []int{
			http.StatusBadRequest,
			http.StatusNotFound,
			http.StatusInternalServerError,
		},
	}, func(ctx context.Context, input *struct {
		ID   int64                 `path:"id"`
		Body UpdateActivityRequest `json:"body"`
	}) (*struct {
		Body ChangesResponse `json:"body"`
	}, error) {
		a, err := e.Repo.GetActivity(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		if input.Body.TypeID != nil {
			if _, err := e.Repo.GetActivityType(ctx, *input.Body.TypeID); err != nil {
				return nil, handleError(err)
			}
			a.TypeID = *input.Body.TypeID
		}
		if input.Body.Status != nil {
			a.Status = *input.Body.Status
		}
		if input.Body.Description != nil {
			a.Description = *input.Body.Description
		}
		if input.Body.Timestamp != nil {
			ts, err := time.Parse(time.RFC3339, *input.Body.Timestamp)
			if err != nil {
				return nil, newAPIError(http.StatusBadRequest, "bad_request", fmt.Sprintf("Invalid timestamp %q", *input.Body.Timestamp))
			}
			a.Timestamp = ts.Unix()
		}
		changes, err := e.Repo.UpdateActivity(ctx, a)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body ChangesResponse `json:"body"`
		}{Body: ChangesResponse{Changes: changes}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-activity",
		Method:      http.MethodDelete,
		Path:        "/activities/{id}",
		Summary:     "Delete logged activity",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID int64 `path:"id"`
	}) (*struct {
		Body ChangesResponse `json:"body"`
	}, error) {
		if _, err := e.Repo.GetActivity(ctx, input.ID); err != nil {
			return nil, handleError(err)
		}
		changes, err := e.Repo.DeleteActivity(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body ChangesResponse `json:"body"`
		}{Body: ChangesResponse{Changes: changes}}, nil
	})
}

func registerActivityTypes(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-activity-type",
		Method:        http.MethodPost,
		Path:          "/activity-types",
		Summary:       "Create activity type",
		DefaultStatus: http.StatusCreated,
		Errors: []int{
			http.StatusBadRequest,
			http.StatusConflict,
			http.StatusInternalServerError,
		},
	}, func(ctx context.Context, input *struct {
		Body CreateActivityTypeRequest `json:"body"`
	}) (*struct {
		Body CreatedResponse `json:"body"`
	}, error) {
		t, err := e.CreateActivityType(ctx, engine.CreateActivityTypeOptions{
			Name:       input.Body.Name,
			Toggle:     input.Body.Toggle,
			StartLabel: input.Body.StartLabel,
			EndLabel:   input.Body.EndLabel,
			CategoryID: input.Body.CategoryID,
			Emoji:      input.Body.Emoji,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body CreatedResponse `json:"body"`
		}{Body: CreatedResponse{NewID: t.ID}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-activity-types",
		Method:      http.MethodGet,
		Path:        "/activity-types",
		Summary:     "List activity types",
	}, func(ctx context.Context, input *struct {
		CategoryID int64 `query:"category_id"`
	}) (*struct {
		Body []domain.ActivityType `json:"body"`
	}, error) {
		var (
			types []domain.ActivityType
			err   error
		)
		if input.CategoryID > 0 {
			types, err = e.Repo.ListActivityTypesByCategory(ctx, input.CategoryID)
		} else {
			types, err = e.Repo.ListActivityTypes(ctx)
		}
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []domain.ActivityType `json:"body"`
		}{Body: types}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-activity-type",
		Method:      http.MethodGet,
		Path:        "/activity-types/{id}",
		Summary:     "Get activity type",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID int64 `path:"id"`
	}) (*struct {
		Body domain.ActivityType `json:"body"`
	}, error) {
		t, err := e.Repo.GetActivityType(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.ActivityType `json:"body"`
		}{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-activity-type",
		Method:      http.MethodPut,
		Path:        "/activity-types/{id}",
		Summary:     "Update activity type",
		Errors: []int{
			http.StatusBadRequest,
			http.StatusNotFound,
			http.StatusConflict,
		},
	}, func(ctx context.Context, input *struct {
		ID   int64                     `path:"id"`
		Body UpdateActivityTypeRequest `json:"body"`
	}) (*struct {
		Body ChangesResponse `json:"body"`
	}, error) {
		t, err := e.Repo.GetActivityType(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		if input.Body.Name != nil {
			t.Name = *input.Body.Name
		}
		if input.Body.Toggle != nil {
			t.Toggle = *input.Body.Toggle
		}
		if input.Body.StartLabel != nil {
			t.StartLabel = *input.Body.StartLabel
		}
		if input.Body.EndLabel != nil {
			t.EndLabel = *input.Body.EndLabel
		}
		if input.Body.CategoryID != nil {
			if _, err := e.Repo.GetCategory(ctx, *input.Body.CategoryID); err != nil {
				return nil, handleError(err)
			}
			t.CategoryID = *input.Body.CategoryID
		}
		if input.Body.Emoji != nil {
			t.Emoji = *input.Body.Emoji
		}
		changes, err := e.Repo.UpdateActivityType(ctx, t)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body ChangesResponse `json:"body"`
		}{Body: ChangesResponse{Changes: changes}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-activity-type",
		Method:      http.MethodDelete,
		Path:        "/activity-types/{id}",
		Summary:     "Delete activity type",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID int64 `path:"id"`
	}) (*struct {
		Body ChangesResponse `json:"body"`
	}, error) {
		if _, err := e.Repo.GetActivityType(ctx, input.ID); err != nil {
			return nil, handleError(err)
		}
		changes, err := e.Repo.DeleteActivityType(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body ChangesResponse `json:"body"`
		}{Body: ChangesResponse{Changes: changes}}, nil
	})
}

func registerCategories(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-category",
		Method:        http.MethodPost,
		Path:          "/categories",
		Summary:       "Create category",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusConflict},
	}, func(ctx context.Context, input *struct {
		Body NameRequest `json:"body"`
	}) (*struct {
		Body CreatedResponse `json:"body"`
	}, error) {
		if input.Body.Name == "" {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "Missing name")
		}
		id, err := e.Repo.InsertCategory(ctx, input.Body.Name)
		if err != nil {
			if errors.Is(err, repo.ErrConflict) {
				return nil, newAPIError(http.StatusConflict, "conflict", fmt.Sprintf("Category %q already exists", input.Body.Name))
			}
			return nil, handleError(err)
		}
		return &struct {
			Body CreatedResponse `json:"body"`
		}{Body: CreatedResponse{NewID: id}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-categories",
		Method:      http.MethodGet,
		Path:        "/categories",
		Summary:     "List categories",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []domain.Category `json:"body"`
	}, error) {
		items, err := e.Repo.ListCategories(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []domain.Category `json:"body"`
		}{Body: items}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-category",
		Method:      http.MethodGet,
		Path:        "/categories/{id}",
		Summary:     "Get category",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID int64 `path:"id"`
	}) (*struct {
		Body domain.Category `json:"body"`
	}, error) {
		c, err := e.Repo.GetCategory(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Category `json:"body"`
		}{Body: c}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-category",
		Method:      http.MethodPut,
		Path:        "/categories/{id}",
		Summary:     "Rename category",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound, http.StatusConflict},
	}, func(ctx context.Context, input *struct {
		ID   int64       `path:"id"`
		Body NameRequest `json:"body"`
	}) (*struct {
		Body ChangesResponse `json:"body"`
	}, error) {
		if input.Body.Name == "" {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "Missing name")
		}
		if _, err := e.Repo.GetCategory(ctx, input.ID); err != nil {
			return nil, handleError(err)
		}
		changes, err := e.Repo.UpdateCategory(ctx, input.ID, input.Body.Name)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body ChangesResponse `json:"body"`
		}{Body: ChangesResponse{Changes: changes}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-category",
		Method:      http.MethodDelete,
		Path:        "/categories/{id}",
		Summary:     "Delete category",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID int64 `path:"id"`
	}) (*struct {
		Body ChangesResponse `json:"body"`
	}, error) {
		if _, err := e.Repo.GetCategory(ctx, input.ID); err != nil {
			return nil, handleError(err)
		}
		changes, err := e.Repo.DeleteCategory(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body ChangesResponse `json:"body"`
		}{Body: ChangesResponse{Changes: changes}}, nil
	})
}

func registerGames(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-game",
		Method:        http.MethodPost,
		Path:          "/games",
		Summary:       "Add game",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusConflict},
	}, func(ctx context.Context, input *struct {
		Body NameRequest `json:"body"`
	}) (*struct {
		Body CreatedResponse `json:"body"`
	}, error) {
		if input.Body.Name == "" {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "Missing name")
		}
		if _, err := e.Repo.GetGameByName(ctx, input.Body.Name); err == nil {
			return nil, newAPIError(http.StatusConflict, "conflict", fmt.Sprintf("Game %q already exists", input.Body.Name))
		} else if !errors.Is(err, repo.ErrNotFound) {
			return nil, handleError(err)
		}
		id, err := e.Repo.InsertGame(ctx, input.Body.Name)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body CreatedResponse `json:"body"`
		}{Body: CreatedResponse{NewID: id}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-games",
		Method:      http.MethodGet,
		Path:        "/games",
		Summary:     "List games",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []domain.Game `json:"body"`
	}, error) {
		items, err := e.Repo.ListGames(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []domain.Game `json:"body"`
		}{Body: items}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-game",
		Method:      http.MethodGet,
		Path:        "/games/{id}",
		Summary:     "Get game",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID int64 `path:"id"`
	}) (*struct {
		Body domain.Game `json:"body"`
	}, error) {
		g, err := e.Repo.GetGame(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Game `json:"body"`
		}{Body: g}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-game-by-name",
		Method:      http.MethodGet,
		Path:        "/games/by-name/{name}",
		Summary:     "Get game by name",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		Name string `path:"name"`
	}) (*struct {
		Body domain.Game `json:"body"`
	}, error) {
		g, err := e.Repo.GetGameByName(ctx, input.Name)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Game `json:"body"`
		}{Body: g}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-game",
		Method:      http.MethodPut,
		Path:        "/games/{id}",
		Summary:     "Rename game",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound, http.StatusConflict},
	}, func(ctx context.Context, input *struct {
		ID   int64       `path:"id"`
		Body NameRequest `json:"body"`
	}) (*struct {
		Body ChangesResponse `json:"body"`
	}, error) {
		if input.Body.Name == "" {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "Missing name")
		}
		if _, err := e.Repo.GetGame(ctx, input.ID); err != nil {
			return nil, handleError(err)
		}
		changes, err := e.Repo.UpdateGame(ctx, input.ID, input.Body.Name)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body ChangesResponse `json:"body"`
		}{Body: ChangesResponse{Changes: changes}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-game",
		Method:      http.MethodDelete,
		Path:        "/games/{id}",
		Summary:     "Delete game",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID int64 `path:"id"`
	}) (*struct {
		Body ChangesResponse `json:"body"`
	}, error) {
		if _, err := e.Repo.GetGame(ctx, input.ID); err != nil {
			return nil, handleError(err)
		}
		changes, err := e.Repo.DeleteGame(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body ChangesResponse `json:"body"`
		}{Body: ChangesResponse{Changes: changes}}, nil
	})
}

func registerMovies(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-movie",
		Method:        http.MethodPost,
		Path:          "/movies",
		Summary:       "Add movie",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusConflict},
	}, func(ctx context.Context, input *struct {
		Body TitleRequest `json:"body"`
	}) (*struct {
		Body CreatedResponse `json:"body"`
	}, error) {
		if input.Body.Title == "" {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "Missing title")
		}
		if _, err := e.Repo.GetMovieByTitle(ctx, input.Body.Title); err == nil {
			return nil, newAPIError(http.StatusConflict, "conflict", fmt.Sprintf("Movie %q already exists", input.Body.Title))
		} else if !errors.Is(err, repo.ErrNotFound) {
			return nil, handleError(err)
		}
		id, err := e.Repo.InsertMovie(ctx, input.Body.Title)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body CreatedResponse `json:"body"`
		}{Body: CreatedResponse{NewID: id}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-movies",
		Method:      http.MethodGet,
		Path:        "/movies",
		Summary:     "List movies",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []domain.Movie `json:"body"`
	}, error) {
		items, err := e.Repo.ListMovies(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []domain.Movie `json:"body"`
		}{Body: items}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-movie",
		Method:      http.MethodGet,
		Path:        "/movies/{id}",
		Summary:     "Get movie",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID int64 `path:"id"`
	}) (*struct {
		Body domain.Movie `json:"body"`
	}, error) {
		m, err := e.Repo.GetMovie(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Movie `json:"body"`
		}{Body: m}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-movie-by-title",
		Method:      http.MethodGet,
		Path:        "/movies/by-title/{title}",
		Summary:     "Get movie by title",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		Title string `path:"title"`
	}) (*struct {
		Body domain.Movie `json:"body"`
	}, error) {
		m, err := e.Repo.GetMovieByTitle(ctx, input.Title)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Movie `json:"body"`
		}{Body: m}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-movie",
		Method:      http.MethodPut,
		Path:        "/movies/{id}",
		Summary:     "Rename movie",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound, http.StatusConflict},
	}, func(ctx context.Context, input *struct {
		ID   int64        `path:"id"`
		Body TitleRequest `json:"body"`
	}) (*struct {
		Body ChangesResponse `json:"body"`
	}, error) {
		if input.Body.Title == "" {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "Missing title")
		}
		if _, err := e.Repo.GetMovie(ctx, input.ID); err != nil {
			return nil, handleError(err)
		}
		changes, err := e.Repo.UpdateMovie(ctx, input.ID, input.Body.Title)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body ChangesResponse `json:"body"`
		}{Body: ChangesResponse{Changes: changes}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-movie",
		Method:      http.MethodDelete,
		Path:        "/movies/{id}",
		Summary:     "Delete movie",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID int64 `path:"id"`
	}) (*struct {
		Body ChangesResponse `json:"body"`
	}, error) {
		if _, err := e.Repo.GetMovie(ctx, input.ID); err != nil {
			return nil, handleError(err)
		}
		changes, err := e.Repo.DeleteMovie(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body ChangesResponse `json:"body"`
		}{Body: ChangesResponse{Changes: changes}}, nil
	})
}

func registerTVShows(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-tv-show",
		Method:        http.MethodPost,
		Path:          "/tv-shows",
		Summary:       "Add TV show",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusConflict},
	}, func(ctx context.Context, input *struct {
		Body TitleRequest `json:"body"`
	}) (*struct {
		Body CreatedResponse `json:"body"`
	}, error) {
		if input.Body.Title == "" {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "Missing title")
		}
		if _, err := e.Repo.GetTVShowByTitle(ctx, input.Body.Title); err == nil {
			return nil, newAPIError(http.StatusConflict, "conflict", fmt.Sprintf("TV show %q already exists", input.Body.Title))
		} else if !errors.Is(err, repo.ErrNotFound) {
			return nil, handleError(err)
		}
		id, err := e.Repo.InsertTVShow(ctx, input.Body.Title)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body CreatedResponse `json:"body"`
		}{Body: CreatedResponse{NewID: id}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-tv-shows",
		Method:      http.MethodGet,
		Path:        "/tv-shows",
		Summary:     "List TV shows",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []domain.TVShow `json:"body"`
	}, error) {
		items, err := e.Repo.ListTVShows(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []domain.TVShow `json:"body"`
		}{Body: items}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-tv-show",
		Method:      http.MethodGet,
		Path:        "/tv-shows/{id}",
		Summary:     "Get TV show",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID int64 `path:"id"`
	}) (*struct {
		Body domain.TVShow `json:"body"`
	}, error) {
		s, err := e.Repo.GetTVShow(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.TVShow `json:"body"`
		}{Body: s}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-tv-show-by-title",
		Method:      http.MethodGet,
		Path:        "/tv-shows/by-title/{title}",
		Summary:     "Get TV show by title",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		Title string `path:"title"`
	}) (*struct {
		Body domain.TVShow `json:"body"`
	}, error) {
		s, err := e.Repo.GetTVShowByTitle(ctx, input.Title)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.TVShow `json:"body"`
		}{Body: s}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-tv-show",
		Method:      http.MethodPut,
		Path:        "/tv-shows/{id}",
		Summary:     "Rename TV show",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound, http.StatusConflict},
	}, func(ctx context.Context, input *struct {
		ID   int64        `path:"id"`
		Body TitleRequest `json:"body"`
	}) (*struct {
		Body ChangesResponse `json:"body"`
	}, error) {
		if input.Body.Title == "" {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "Missing title")
		}
		if _, err := e.Repo.GetTVShow(ctx, input.ID); err != nil {
			return nil, handleError(err)
		}
		changes, err := e.Repo.UpdateTVShow(ctx, input.ID, input.Body.Title)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body ChangesResponse `json:"body"`
		}{Body: ChangesResponse{Changes: changes}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-tv-show",
		Method:      http.MethodDelete,
		Path:        "/tv-shows/{id}",
		Summary:     "Delete TV show",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID int64 `path:"id"`
	}) (*struct {
		Body ChangesResponse `json:"body"`
	}, error) {
		if _, err := e.Repo.GetTVShow(ctx, input.ID); err != nil {
			return nil, handleError(err)
		}
		changes, err := e.Repo.DeleteTVShow(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body ChangesResponse `json:"body"`
		}{Body: ChangesResponse{Changes: changes}}, nil
	})
}

func registerEvents(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "list-events",
		Method:      http.MethodGet,
		Path:        "/events",
		Summary:     "List recent journal events",
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Limit int    `query:"limit" default:"50" minimum:"1" maximum:"500"`
		Type  string `query:"type"`
	}) (*struct {
		Body []domain.Event `json:"body"`
	}, error) {
		items, err := e.Repo.LatestEvents(ctx, input.Limit, input.Type)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []domain.Event `json:"body"`
		}{Body: items}, nil
	})
}
