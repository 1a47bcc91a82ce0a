package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct {
	err error
}

func (f fakePinger) Ping(ctx context.Context) error { return f.err }

func TestCheckerHealthy(t *testing.T) {
	checker := NewChecker()
	checker.Register(NewDatabaseCheck(fakePinger{}))

	results := checker.Check(context.Background())
	require.Len(t, results, 1)
	assert.Equal(t, StatusHealthy, results["database"].Status)
	assert.Equal(t, StatusHealthy, checker.OverallStatus(results))
}

func TestCheckerUnhealthy(t *testing.T) {
	checker := NewChecker()
	checker.Register(NewDatabaseCheck(fakePinger{err: errors.New("connection refused")}))

	results := checker.Check(context.Background())
	assert.Equal(t, StatusUnhealthy, results["database"].Status)
	assert.Equal(t, StatusUnhealthy, checker.OverallStatus(results))
}

func TestHandler(t *testing.T) {
	tests := []struct {
		name       string
		pingErr    error
		wantStatus int
		wantOver   Status
	}{
		{"ready", nil, http.StatusOK, StatusHealthy},
		{"not ready", errors.New("down"), http.StatusServiceUnavailable, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := NewChecker()
			checker.Register(NewDatabaseCheck(fakePinger{err: tt.pingErr}))

			req := httptest.NewRequest(http.MethodGet, "/ready", nil)
			rec := httptest.NewRecorder()
			checker.Handler()(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var body struct {
				Status Status `json:"status"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantOver, body.Status)
		})
	}
}

func TestEmptyCheckerIsHealthy(t *testing.T) {
	checker := NewChecker()
	results := checker.Check(context.Background())
	assert.Empty(t, results)
	assert.Equal(t, StatusHealthy, checker.OverallStatus(results))
}
