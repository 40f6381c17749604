package logsvc

import (
	"bytes"
	"testing"

	kitlog "github.com/go-kit/log"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/bulletin/core/session"
)

func TestKitLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewKitLogger(kitlog.NewLogfmtLogger(&buf))
	var exitCode int
	logger.exit = func(code int) { exitCode = code }

	logger.Info("session opened", map[string]interface{}{"courses": 3}, session.Session{ID: "abc"})
	assert.Equal(t, "level=info msg=\"session opened\" courses=3 session=abc\n", buf.String())

	buf.Reset()
	logger.Error("boom", errors.New("db down"))
	assert.Contains(t, buf.String(), "level=error msg=boom err=\"db down")

	buf.Reset()
	logger.Fatal("bye")
	assert.Contains(t, buf.String(), "fatal=true")
	assert.Equal(t, 1, exitCode)
}
