package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"tavern/broker"
	"tavern/broker/relay"
	"tavern/config"
	"tavern/database"
	"tavern/database/memory"
	"tavern/database/postgres"
	"tavern/media"
	"tavern/metric"
	"tavern/server"
	"tavern/server/controller"
	"tavern/storage"
	"tavern/types/api/response"
)

// App contains servers and configuration.
type App struct {
	database database.Database
	broker   *broker.Broker
	manager  *media.Manager
	server   *server.Server
	metric   *metric.Metrics
}

// openRelay is replaced in tests.
var openRelay = relay.Open

// New creates a new instance of App. The relay is dialled with ctx. Whatever
// was opened is closed again when a later step fails.
func New(ctx context.Context, conf Config) (_ *App, err error) {
	met := metric.New(conf.Metrics)
	met.RegisterMetrics()

	db, err := OpenDatabase(conf.Env.Database)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			if cerr := db.Close(); cerr != nil {
				log.Printf("failed to close database: %v", cerr)
			}
		}
	}()

	var rel broker.Relay
	r, err := openRelay(ctx, conf.Env.Relay.Config())
	if err != nil {
		return nil, fmt.Errorf("failed to open relay: %w", err)
	}
	if r != nil {
		rel = r
		defer func() {
			if err != nil {
				if cerr := r.Close(); cerr != nil {
					log.Printf("failed to close relay: %v", cerr)
				}
			}
		}()
	}
	brk := broker.New(broker.Config{Relay: rel, Recorder: met})

	mediaConf := conf.Env.Media.Config()
	pub, err := media.NewJanusPublisher(mediaConf)
	if err != nil {
		return nil, fmt.Errorf("failed to create publisher: %w", err)
	}
	mgr := media.NewManager(pub, met)

	var store storage.Storage
	s3, err := storage.New(conf.Env.S3.Config())
	switch {
	case err == nil:
		store = s3
	case errors.Is(err, storage.ErrNotConfigured):
		log.Warn().Msg("object storage is not configured, uploads are disabled")
		err = nil
	default:
		return nil, err
	}

	con := controller.New(controller.Options{
		Database:    db,
		Broker:      brk,
		Player:      mgr,
		Storage:     store,
		Connections: met,
		Debug:       conf.Server.Debug,
		JanusURL:    mediaConf.JanusURL,
		ICEServers:  iceServers(mediaConf),
	})

	return &App{
		database: db,
		broker:   brk,
		manager:  mgr,
		server:   server.New(conf.Server, con.Handler(), met),
		metric:   met,
	}, nil
}

// OpenDatabase opens the configured game store.
func OpenDatabase(conf config.Database) (database.Database, error) {
	switch conf.Driver {
	case config.DriverMemory:
		log.Warn().Msg("using the in-memory database, data is lost on exit")
		return memory.New(), nil
	case config.DriverPostgres, "":
		db, err := postgres.Open(conf.Postgres())
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("%q: %w", conf.Driver, config.ErrUnknownDriver)
	}
}

func iceServers(conf media.Config) []response.ICEServer {
	servers := conf.ICEServers()
	res := make([]response.ICEServer, 0, len(servers))
	for _, s := range servers {
		ice := response.ICEServer{URLs: s.URLs, Username: s.Username}
		if cred, ok := s.Credential.(string); ok {
			ice.Credential = cred
		}
		res = append(res, ice)
	}
	return res
}

// Run runs the http server, the event relay and the metrics server until ctx
// is done or one of them fails. Active playbacks are stopped on the way out.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.server.Run(ctx)
	})
	g.Go(func() error {
		return a.broker.Run(ctx)
	})
	g.Go(func() error {
		return a.metric.Run(ctx)
	})
	err := g.Wait()

	a.manager.Close()
	if cerr := a.database.Close(); cerr != nil {
		log.Printf("failed to close database: %v", cerr)
	}
	if err != nil {
		return fmt.Errorf("app stopped: %w", err)
	}
	return nil
}
