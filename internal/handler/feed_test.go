package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/aroy/employee-dashboard/internal/feed"
	"github.com/aroy/employee-dashboard/internal/handler"
	"github.com/aroy/employee-dashboard/internal/router"
)

func newFeedApp(store *feed.Store) *echo.Echo {
	e := echo.New()
	router.RegisterFeed(e, handler.NewFeedHandler(store), nil)
	return e
}

func getFeed(e *echo.Echo, name string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/"+name, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestGetFeed_KnownName(t *testing.T) {
	t.Parallel()

	store := feed.NewStore([]string{"timesheet"})
	store.Replace("timesheet", []feed.Row{
		{"User_Id": "E1", "hours": "01:00:00"},
		{"User_Id": "E2", "hours": "00:30:00"},
	})
	e := newFeedApp(store)

	rec := getFeed(e, "timesheet")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "1", rec.Header().Get("X-Feed-Generation"))

	var rows []map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 2)
	require.Equal(t, "E1", rows[0]["User_Id"])
}

func TestGetFeed_UnknownName(t *testing.T) {
	t.Parallel()

	store := feed.NewStore([]string{"timesheet"})
	store.Replace("timesheet", []feed.Row{})
	e := newFeedApp(store)

	require.Equal(t, http.StatusNotFound, getFeed(e, "Salaries").Code)
}

// A known feed whose file never parsed serves 404 until the first
// successful load, then the loaded rows.
func TestGetFeed_NotLoadedThenLoaded(t *testing.T) {
	t.Parallel()

	store := feed.NewStore([]string{"timesheet"})
	e := newFeedApp(store)

	require.Equal(t, http.StatusNotFound, getFeed(e, "timesheet").Code)

	store.Replace("timesheet", []feed.Row{{"User_Id": "E1"}})
	rec := getFeed(e, "timesheet")
	require.Equal(t, http.StatusOK, rec.Code)
}

// A reload is visible to the next request, with the generation header
// advanced and the row count matching the new file.
func TestGetFeed_ReloadReplacesRows(t *testing.T) {
	t.Parallel()

	store := feed.NewStore([]string{"timesheet"})
	store.Replace("timesheet", []feed.Row{{"User_Id": "E1"}})
	e := newFeedApp(store)

	store.Replace("timesheet", []feed.Row{{"User_Id": "E1"}, {"User_Id": "E2"}, {"User_Id": "E3"}})
	rec := getFeed(e, "timesheet")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "2", rec.Header().Get("X-Feed-Generation"))

	var rows []map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 3)
}

func TestGetFeed_HealthzNotShadowed(t *testing.T) {
	t.Parallel()

	store := feed.NewStore([]string{"timesheet"})
	e := newFeedApp(store)

	rec := getFeed(e, "healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
}
