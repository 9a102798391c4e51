package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/questx-lab/stakeboard/internal/common"
	"github.com/questx-lab/stakeboard/pkg/errorx"
	"github.com/questx-lab/stakeboard/pkg/router"
	xtestutil "github.com/questx-lab/stakeboard/pkg/testutil"
	"github.com/questx-lab/stakeboard/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

type pingResponse struct {
	Elapsed bool `json:"elapsed"`
}

func newTestRouter() *router.Router {
	r := router.New(xtestutil.MockContext())
	r.Before(WithStartTime())
	r.Before(RejectOversizedQuery(64))
	r.AddCloser(Logger())
	r.AddCloser(Prometheus())

	router.GET(r, "/ping", func(ctx context.Context, req *struct{}) (*pingResponse, error) {
		return &pingResponse{Elapsed: !xcontext.StartTime(ctx).IsZero()}, nil
	})
	router.GET(r, "/fail", func(ctx context.Context, req *struct{}) (*pingResponse, error) {
		return nil, errorx.New(errorx.NotFound, "Not found")
	})

	return r
}

func TestMiddlewares(t *testing.T) {
	r := newTestRouter()

	before := testutil.ToFloat64(common.PromCounters[common.HTTPRequestTotal].WithLabelValues("/ping", "0"))

	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"elapsed":true`)

	after := testutil.ToFloat64(common.PromCounters[common.HTTPRequestTotal].WithLabelValues("/ping", "0"))
	require.Equal(t, before+1, after)

	failed := common.PromCounters[common.HTTPRequestTotal].WithLabelValues("/fail", "100004")
	before = testutil.ToFloat64(failed)

	w = httptest.NewRecorder()
	r.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))
	require.Contains(t, w.Body.String(), `"code":100004`)
	require.Equal(t, before+1, testutil.ToFloat64(failed))
}

func TestRejectOversizedQuery(t *testing.T) {
	r := newTestRouter()

	w := httptest.NewRecorder()
	url := "/ping?wallet_address=" + strings.Repeat("a", 65)
	r.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))
	require.Contains(t, w.Body.String(), `"code":100001`)

	w = httptest.NewRecorder()
	url = "/ping?focus_wallet=" + strings.Repeat("a", 64)
	r.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))
	require.Contains(t, w.Body.String(), `"elapsed":true`)
}
