package echoapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/bulletin/core"
	"github.com/trezcool/bulletin/core/session"
)

// brokenService fails every Get with `err`; other methods are not called.
type brokenService struct {
	session.ServiceInterface
	err error
}

func (svc brokenService) Get(context.Context, string) (session.Session, error) {
	return session.Session{}, svc.err
}

func TestAppHTTPErrorHandler_serverErrors(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantShutdown bool
	}{
		{name: "shutdown", err: errors.Wrap(core.NewShutdownError("sql: database is closed"), "getting session"), wantShutdown: true},
		{name: "other", err: errors.New("boom")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shutdown := make(chan os.Signal, 1)
			s := NewServer("", shutdown, &Deps{
				Conf:       &core.Config{TestMode: true},
				Translator: core.NewTranslator(),
				SessionSvc: brokenService{err: tt.err},
			})

			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/sessions/abc", nil))
			require.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.JSONEq(t, `{"error": "Internal Server Error"}`, rec.Body.String())

			select {
			case <-shutdown:
				assert.True(t, tt.wantShutdown, "unexpected shutdown signal")
			default:
				assert.False(t, tt.wantShutdown, "no shutdown signal")
			}
		})
	}
}
