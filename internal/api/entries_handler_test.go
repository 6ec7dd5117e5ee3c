package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/epoch-io/epoch/internal/models"
	"github.com/epoch-io/epoch/internal/report"
	"github.com/epoch-io/epoch/internal/repository"
)

// newEntryTestServer wires the entry routes behind a stub session gate that
// injects a fixed identity, so the workspace semantics are tested in
// isolation from token handling.
func newEntryTestServer(repo repository.TimeEntryRepository, userID uint, email string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewEntryHandler(repo)

	authed := func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("user_email", email)
		c.Next()
	}

	g := r.Group("/api/v1/entries", authed)
	g.GET("", h.List)
	g.POST("", h.Create)
	g.DELETE("/:id", h.Delete)
	g.GET("/export", h.Export)
	return r
}

func postEntry(t *testing.T, engine *gin.Engine, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/entries", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)
	return w
}

func listEntries(t *testing.T, engine *gin.Engine) []models.TimeEntry {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/entries", nil)
	engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool               `json:"success"`
		Data    []models.TimeEntry `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data
}

func validEntryRequest() models.CreateTimeEntryRequest {
	return models.CreateTimeEntryRequest{
		Date:     "2024-06-10",
		Activity: "Sprint planning",
		Project:  "Apollo",
		TimeIn:   "09:00",
		TimeOut:  "17:30",
	}
}

func TestEntryHandlerCreate(t *testing.T) {
	t.Run("valid submission is stored with computed hours", func(t *testing.T) {
		repo := repository.NewMemoryTimeEntryRepository()
		engine := newEntryTestServer(repo, 1, "user@example.com")

		w := postEntry(t, engine, validEntryRequest())
		require.Equal(t, http.StatusCreated, w.Code)

		var resp struct {
			Success bool             `json:"success"`
			Data    models.TimeEntry `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.NotZero(t, resp.Data.ID)
		assert.False(t, resp.Data.CreatedAt.IsZero())
		assert.Equal(t, 8.5, resp.Data.HoursWorked)
		assert.Equal(t, models.Billable, resp.Data.Billable)
	})

	t.Run("missing fields write nothing", func(t *testing.T) {
		repo := repository.NewMemoryTimeEntryRepository()
		engine := newEntryTestServer(repo, 1, "user@example.com")

		req := validEntryRequest()
		req.Project = ""
		w := postEntry(t, engine, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, listEntries(t, engine))
	})

	t.Run("malformed clock time writes nothing", func(t *testing.T) {
		repo := repository.NewMemoryTimeEntryRepository()
		engine := newEntryTestServer(repo, 1, "user@example.com")

		req := validEntryRequest()
		req.TimeOut = "late"
		w := postEntry(t, engine, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, listEntries(t, engine))
	})

	t.Run("overnight shift stores negative hours", func(t *testing.T) {
		repo := repository.NewMemoryTimeEntryRepository()
		engine := newEntryTestServer(repo, 1, "user@example.com")

		req := validEntryRequest()
		req.TimeIn = "22:00"
		req.TimeOut = "06:00"
		w := postEntry(t, engine, req)
		require.Equal(t, http.StatusCreated, w.Code)

		var resp struct {
			Data models.TimeEntry `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, -16.0, resp.Data.HoursWorked)
	})
}

func TestEntryHandlerList(t *testing.T) {
	t.Run("returns newest created first", func(t *testing.T) {
		repo := repository.NewMemoryTimeEntryRepository()
		engine := newEntryTestServer(repo, 1, "user@example.com")

		first := validEntryRequest()
		first.Activity = "first"
		second := validEntryRequest()
		second.Activity = "second"
		require.Equal(t, http.StatusCreated, postEntry(t, engine, first).Code)
		require.Equal(t, http.StatusCreated, postEntry(t, engine, second).Code)

		entries := listEntries(t, engine)
		require.Len(t, entries, 2)
		assert.Equal(t, "second", entries[0].Activity)
		assert.Equal(t, "first", entries[1].Activity)
	})

	t.Run("empty workspace lists an empty collection", func(t *testing.T) {
		repo := repository.NewMemoryTimeEntryRepository()
		engine := newEntryTestServer(repo, 1, "user@example.com")

		assert.Empty(t, listEntries(t, engine))
	})
}

func TestEntryHandlerDelete(t *testing.T) {
	t.Run("removes exactly the identified entry", func(t *testing.T) {
		repo := repository.NewMemoryTimeEntryRepository()
		engine := newEntryTestServer(repo, 1, "user@example.com")

		keep := validEntryRequest()
		keep.Activity = "keep"
		drop := validEntryRequest()
		drop.Activity = "drop"
		require.Equal(t, http.StatusCreated, postEntry(t, engine, keep).Code)

		w := postEntry(t, engine, drop)
		require.Equal(t, http.StatusCreated, w.Code)
		var created struct {
			Data models.TimeEntry `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

		del := httptest.NewRecorder()
		req := httptest.NewRequest("DELETE", fmt.Sprintf("/api/v1/entries/%d", created.Data.ID), nil)
		engine.ServeHTTP(del, req)
		assert.Equal(t, http.StatusOK, del.Code)

		entries := listEntries(t, engine)
		require.Len(t, entries, 1)
		assert.Equal(t, "keep", entries[0].Activity)
	})

	t.Run("another user's entry is invisible", func(t *testing.T) {
		repo := repository.NewMemoryTimeEntryRepository()
		owner := newEntryTestServer(repo, 1, "owner@example.com")
		intruder := newEntryTestServer(repo, 2, "intruder@example.com")

		w := postEntry(t, owner, validEntryRequest())
		require.Equal(t, http.StatusCreated, w.Code)
		var created struct {
			Data models.TimeEntry `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

		assert.Empty(t, listEntries(t, intruder))

		del := httptest.NewRecorder()
		req := httptest.NewRequest("DELETE", fmt.Sprintf("/api/v1/entries/%d", created.Data.ID), nil)
		intruder.ServeHTTP(del, req)
		assert.Equal(t, http.StatusNotFound, del.Code)

		// Still there for the owner.
		assert.Len(t, listEntries(t, owner), 1)
	})

	t.Run("non numeric id is rejected", func(t *testing.T) {
		repo := repository.NewMemoryTimeEntryRepository()
		engine := newEntryTestServer(repo, 1, "user@example.com")

		del := httptest.NewRecorder()
		req := httptest.NewRequest("DELETE", "/api/v1/entries/abc", nil)
		engine.ServeHTTP(del, req)
		assert.Equal(t, http.StatusBadRequest, del.Code)
	})
}

func TestEntryHandlerExport(t *testing.T) {
	t.Run("downloads the report sorted by date ascending", func(t *testing.T) {
		repo := repository.NewMemoryTimeEntryRepository()
		engine := newEntryTestServer(repo, 1, "user@example.com")

		later := validEntryRequest()
		later.Date = "2024-06-12"
		later.Activity = "Code review"
		earlier := validEntryRequest()
		earlier.Date = "2024-06-10"
		earlier.Activity = "Sprint planning"

		// Insert the later date first so the in-memory collection, held
		// newest-created-first, differs from report order.
		require.Equal(t, http.StatusCreated, postEntry(t, engine, later).Code)
		require.Equal(t, http.StatusCreated, postEntry(t, engine, earlier).Code)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/v1/entries/export", nil)
		engine.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, report.ContentType, w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), "WeeklyReport-user@example.com-")

		f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
		require.NoError(t, err)
		defer f.Close()

		a5, err := f.GetCellValue(report.SheetName, "A5")
		require.NoError(t, err)
		b5, err := f.GetCellValue(report.SheetName, "B5")
		require.NoError(t, err)
		a6, err := f.GetCellValue(report.SheetName, "A6")
		require.NoError(t, err)
		assert.Equal(t, "Monday", a5)
		assert.Equal(t, "2024-06-10", b5)
		assert.Equal(t, "Wednesday", a6)

		c3, err := f.GetCellValue(report.SheetName, "C3")
		require.NoError(t, err)
		assert.Equal(t, "user@example.com", c3)
	})

	t.Run("empty workspace still exports the header layout", func(t *testing.T) {
		repo := repository.NewMemoryTimeEntryRepository()
		engine := newEntryTestServer(repo, 1, "user@example.com")

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/v1/entries/export", nil)
		engine.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
		require.NoError(t, err)
		defer f.Close()

		a4, err := f.GetCellValue(report.SheetName, "A4")
		require.NoError(t, err)
		assert.Equal(t, "Day", a4)
	})
}
