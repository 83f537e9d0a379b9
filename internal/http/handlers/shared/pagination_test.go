package shared

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func bytesReader(body string) io.Reader {
	return strings.NewReader(body)
}

func TestNormalizePagination(t *testing.T) {
	cases := []struct {
		page, size         int
		wantPage, wantSize int
	}{
		{0, 0, 1, 20},
		{3, 50, 3, 50},
		{-2, 500, 1, 100},
	}
	for _, tc := range cases {
		page, size := NormalizePagination(tc.page, tc.size)
		if page != tc.wantPage || size != tc.wantSize {
			t.Fatalf("NormalizePagination(%d,%d) want (%d,%d) got (%d,%d)", tc.page, tc.size, tc.wantPage, tc.wantSize, page, size)
		}
	}
}

func TestParsePageQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/product?page=2&pageSize=5&direction=desc&search=+blue+", nil)

	q := ParsePageQuery(c)
	if q.Page != 2 || q.PageSize != 5 || q.Direction != "desc" || q.Search != "blue" {
		t.Fatalf("unexpected page query: %+v", q)
	}

	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/product?page_size=7", nil)
	if q := ParsePageQuery(c); q.Page != 1 || q.PageSize != 7 {
		t.Fatalf("snake_case page size should be accepted: %+v", q)
	}
}

func TestParamUintRejectsInvalid(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/order/:id", func(c *gin.Context) {
		if _, ok := ParamUint(c, "id"); !ok {
			return
		}
		c.Status(http.StatusNoContent)
	})

	for path, want := range map[string]int{"/order/12": 204, "/order/0": 400, "/order/abc": 400} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != want {
			t.Fatalf("%s status want %d got %d", path, want, w.Code)
		}
	}
}
