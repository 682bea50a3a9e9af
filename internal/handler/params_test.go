package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/lastmile-backend-go/internal/dataset"
	"github.com/jengzang/lastmile-backend-go/internal/filter"
	"github.com/jengzang/lastmile-backend-go/internal/service"
)

func contextFor(target string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c, w
}

func TestParseFilter(t *testing.T) {
	c, _ := contextFor("/x?start=2022-03-01&end=2022-03-31&weather=Sunny&weather=%20Fog%20&vehicle=&area")
	f, err := parseFilter(c)
	require.NoError(t, err)

	assert.Equal(t, "2022-03-01", f.StartDate.Format(dateLayout))
	assert.Equal(t, "2022-03-31", f.EndDate.Format(dateLayout))
	assert.Equal(t, []string{"Sunny", "Fog"}, f.Weather)
	assert.NotNil(t, f.Vehicle)
	assert.Empty(t, f.Vehicle)
	assert.NotNil(t, f.Area)
	assert.Empty(t, f.Area)
	assert.Nil(t, f.Traffic)
	assert.Nil(t, f.Category)
}

func TestParseFilterInvalidDate(t *testing.T) {
	c, _ := contextFor("/x?end=31-03-2022")
	_, err := parseFilter(c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "end")
}

func TestWriteError(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("wrapped: %w", filter.ErrInvalidDateRange), http.StatusBadRequest},
		{service.ErrNoData, http.StatusNotFound},
		{&dataset.LoadError{Path: "x.csv", Err: dataset.ErrDataNotFound}, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		c, w := contextFor("/x")
		writeError(c, tc.err)
		assert.Equal(t, tc.code, w.Code, tc.err.Error())
	}
}
