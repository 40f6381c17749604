package dig_container

import (
	"fmt"
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/bulletin/apps/api/echo"
	"github.com/trezcool/bulletin/core"
	"github.com/trezcool/bulletin/core/session"
	logsvc "github.com/trezcool/bulletin/services/logger"
	"github.com/trezcool/bulletin/storage/database"
	inmemdb "github.com/trezcool/bulletin/storage/database/inmem"
	sqlxrepos "github.com/trezcool/bulletin/storage/database/sqlx"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

// newLogger logs to Rollbar, or to the console in DEBUG.
func newLogger(conf *core.Config) core.Logger {
	if conf.Debug {
		return logsvc.NewConsoleLogger("API")
	}
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(true)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	if conf.Debug {
		return logsvc.NewConsoleLogger("DB")
	}
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(true)
	return logger
}

// newDB sets up postgres; there is no DB (nil) when sessions are kept in memory.
func newDB(conf *core.Config, loggerParam DBLoggerParam) *sqlx.DB {
	if conf.Session.Store != core.StorePostgres {
		return nil
	}

	setUp := func() (*sqlx.DB, error) {
		if err := database.CreateIfNotExist(conf); err != nil {
			return nil, err
		}

		db, err := database.Open(conf)
		if err != nil {
			return nil, err
		}

		if err = database.Migrate(db); err != nil {
			return nil, err
		}
		return db, nil
	}

	db, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return db
}

// newSessionRepository picks the store from `session.store`.
func newSessionRepository(conf *core.Config, db *sqlx.DB) (session.Repository, error) {
	switch conf.Session.Store {
	case core.StoreMemory:
		return inmemdb.NewSessionRepository(conf.Session.TTL, conf.Session.CleanupInterval), nil
	case core.StorePostgres:
		if db == nil {
			return nil, errors.New("postgres session store without a database")
		}
		return sqlxrepos.NewSessionRepository(db), nil
	}
	return nil, errors.Errorf("unknown session store %q", conf.Session.Store)
}

func newSessionService(repo session.Repository, logger core.Logger, validate *validator.Validate) session.ServiceInterface {
	return session.NewService(repo, logger, validate)
}

func newServer(
	conf *core.Config,
	logger core.Logger,
	translator ut.Translator,
	sessSvc session.ServiceInterface,
) *echoapi.Server {
	return echoapi.NewServer(
		conf.Server.Address(),
		nil, /* shutdown */
		&echoapi.Deps{
			Conf:       conf,
			Logger:     logger,
			Translator: translator,
			SessionSvc: sessSvc,
		},
	)
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	return NewWithConfig(core.NewConfig)
}

// NewWithConfig is New with a custom config provider.
func NewWithConfig(newConfig func() *core.Config) *dig.Container {
	c := dig.New()

	must(c.Provide(newConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newDB))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(core.NewValidator))
	must(c.Provide(newSessionRepository))
	must(c.Provide(newSessionService))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
