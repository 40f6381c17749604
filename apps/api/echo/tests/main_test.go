package tests

import (
	"os"
	"testing"
	"time"

	kitlog "github.com/go-kit/log"

	. "github.com/trezcool/bulletin/apps/api/echo"
	"github.com/trezcool/bulletin/core"
	"github.com/trezcool/bulletin/core/session"
	"github.com/trezcool/bulletin/services/logger"
	"github.com/trezcool/bulletin/storage/database/inmem"
)

var app *Server

func TestMain(m *testing.M) {
	logger := logsvc.NewKitLogger(kitlog.NewNopLogger())
	translator := core.NewTranslator()

	// set up repos & services
	repo := inmemdb.NewSessionRepository(time.Hour, time.Hour)
	sessSvc := session.NewService(repo, logger, core.NewValidator(translator))

	// set up server
	app = NewServer(
		"",  /* addr */
		nil, /* shutdown */
		&Deps{
			Conf:       &core.Config{TestMode: true},
			Logger:     logger,
			Translator: translator,
			SessionSvc: sessSvc,
		},
	)

	os.Exit(m.Run())
}
