package api

import (
	"errors"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"todo-api/domain"
)

const (
	maxDiagnosticsCollections = 10
	maxDiagnosticsErrorLen    = 50
)

var validate = validator.New()

// Register wires up all API routes on the provided Echo instance.
func Register(e *echo.Echo, store Storage, logger *log.Logger) {
	e.GET("/", root())
	e.GET("/test", diagnostics(store))
	e.POST("/api/tasks", createTask(store))
	e.GET("/api/tasks", listTasks(store, logger))
	e.PATCH("/api/tasks/:id", updateTask(store))
	e.DELETE("/api/tasks/:id", deleteTask(store))
}

func root() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, messageResponse{Message: "Todo API running"})
	}
}

// diagnostics reports liveness and best-effort database reachability. It
// never fails: every internal error is rendered as a string field.
func diagnostics(store Storage) echo.HandlerFunc {
	return func(c echo.Context) error {
		resp := diagnosticsResponse{
			Backend:          "running",
			Database:         "unavailable",
			DatabaseURL:      envStatus("DATABASE_URL"),
			DatabaseName:     envStatus("DATABASE_NAME"),
			ConnectionStatus: "Not Connected",
			Collections:      []string{},
		}
		if store.Connected() {
			resp.ConnectionStatus = "Connected"
			names, err := store.CollectionNames(c.Request().Context())
			if err != nil {
				resp.Database = "error: " + truncate(err.Error(), maxDiagnosticsErrorLen)
			} else {
				resp.Database = "connected"
				resp.Collections = capped(names, maxDiagnosticsCollections)
			}
		}
		return c.JSON(http.StatusOK, resp)
	}
}

func createTask(store Storage) echo.HandlerFunc {
	return func(c echo.Context) error {
		var payload domain.TaskCreate
		if err := decodeBody(c, &payload); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		if err := validate.Struct(payload); err != nil {
			return c.String(http.StatusBadRequest, "title is required")
		}

		id, err := store.InsertTask(c.Request().Context(), payload)
		if err != nil {
			c.Logger().Error(err)
			return c.String(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, createTaskResponse{ID: id})
	}
}

func listTasks(store Storage, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		ctx := c.Request().Context()
		metrics := newListRequestMetrics(logger)
		defer func() {
			metrics.Log(c.Response().Status, err)
		}()

		filter := domain.ListFilter{
			Category: c.QueryParam("category"),
			Query:    c.QueryParam("q"),
		}
		metrics.SetFilters(filter.Category != "", filter.Query != "")

		fetchStart := time.Now()
		tasks, fetchErr := store.ListTasks(ctx, filter)
		metrics.ObserveFetch(time.Since(fetchStart))
		if fetchErr != nil {
			metrics.SetErrorStage("storage")
			c.Logger().Error(fetchErr)
			err = c.String(http.StatusInternalServerError, fetchErr.Error())
			return err
		}
		metrics.SetTasksReturned(len(tasks))

		encodeStart := time.Now()
		err = c.JSON(http.StatusOK, tasks)
		metrics.ObserveEncode(time.Since(encodeStart))
		if err != nil {
			metrics.SetErrorStage("encode_response")
		}
		return err
	}
}

func updateTask(store Storage) echo.HandlerFunc {
	return func(c echo.Context) error {
		var changes domain.TaskUpdate
		if err := decodeBody(c, &changes); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}

		task, err := store.UpdateTask(c.Request().Context(), c.Param("id"), changes)
		if err != nil {
			var nf NotFoundError
			if errors.As(err, &nf) {
				return c.String(http.StatusNotFound, nf.Error())
			}
			c.Logger().Error(err)
			return c.String(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, task)
	}
}

func deleteTask(store Storage) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := store.DeleteTask(c.Request().Context(), c.Param("id")); err != nil {
			var nf NotFoundError
			if errors.As(err, &nf) {
				return c.String(http.StatusNotFound, nf.Error())
			}
			c.Logger().Error(err)
			return c.String(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, deleteTaskResponse{Status: "ok"})
	}
}

func decodeBody(c echo.Context, v any) error {
	lr := io.LimitReader(c.Request().Body, taskBodyMaxSize)
	dec := sonic.ConfigStd.NewDecoder(lr)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func envStatus(name string) string {
	if os.Getenv(name) != "" {
		return "set"
	}
	return "not set"
}
