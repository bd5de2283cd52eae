package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nexussync/collection"
	"nexussync/collection/file"
	"nexussync/collection/rest"
	"nexussync/collection/sqlite"
	colsync "nexussync/collection/sync"
	"nexussync/internal/config"
	"nexussync/internal/credentials"
	"nexussync/internal/utils"
)

// App wires the configuration, store, and gateway for the commands.
type App struct {
	config *config.Config
	log    *zap.Logger

	specs       []config.CollectionSpec
	specsErr    error
	specsLoaded bool
}

func NewApp(verbose bool) *App {
	logger := zap.NewNop()
	if verbose {
		if l, err := zap.NewDevelopment(); err == nil {
			logger = l
		}
	}
	return &App{
		config: config.GetConfig(),
		log:    logger,
	}
}

// collections loads the collections file once.
func (a *App) collections() ([]config.CollectionSpec, error) {
	if !a.specsLoaded {
		a.specsLoaded = true
		path, err := a.config.ResolveCollectionsFile()
		if err != nil {
			a.specsErr = err
		} else if a.specs, a.specsErr = config.LoadCollections(path); a.specsErr != nil {
			if errors.Is(a.specsErr, os.ErrNotExist) {
				a.specsErr = utils.ErrNoCollectionsConfigured(path)
			}
		}
	}
	return a.specs, a.specsErr
}

func (a *App) findCollection(name string) (*config.CollectionSpec, error) {
	specs, err := a.collections()
	if err != nil {
		return nil, err
	}
	spec, err := config.FindCollection(specs, name)
	if err != nil {
		return nil, utils.ErrCollectionNotFound(name)
	}
	return spec, nil
}

// openStore opens the configured snapshot store. The returned func releases
// it.
func (a *App) openStore() (collection.Store, func(), error) {
	switch a.config.Store.Driver {
	case "sqlite":
		path := a.config.Store.Path
		if path == "" {
			dir, err := file.DefaultDir()
			if err != nil {
				return nil, nil, err
			}
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, nil, err
			}
			path = dir + "/snapshots.db"
		}
		s, err := sqlite.New(path)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil

	default: // "file"
		dir := a.config.Store.Path
		if dir == "" {
			var err error
			if dir, err = file.DefaultDir(); err != nil {
				return nil, nil, err
			}
		}
		s, err := file.New(dir)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	}
}

// gatewayOps builds the remote operations for one collection, resolving the
// API token from keyring or environment.
func (a *App) gatewayOps(spec *config.CollectionSpec, desc collection.Descriptor[collection.Dynamic]) (collection.Operations[collection.Dynamic], error) {
	name := a.config.GatewayName()

	baseURL := a.config.Gateway.URL
	if override := credentials.GetURL(name); override != "" {
		baseURL = override
	}

	token, err := credentials.Resolve(name)
	if err != nil {
		return collection.Operations[collection.Dynamic]{}, err
	}

	client := rest.NewClient(baseURL, token.Value)
	if a.config.Gateway.TimeoutSeconds > 0 {
		client.SetTimeout(time.Duration(a.config.Gateway.TimeoutSeconds) * time.Second)
	}

	gw := rest.NewGateway(client, rest.Endpoints{
		List:   spec.Endpoints.List,
		Create: spec.Endpoints.Create,
		Update: spec.Endpoints.Update,
		Delete: spec.Endpoints.Delete,
	}, desc)
	return gw.Operations(), nil
}

// engineFor builds a sync engine for one collection. withGateway=false
// yields a local-only engine for inspection commands.
func (a *App) engineFor(spec *config.CollectionSpec, withGateway bool) (*colsync.Engine[collection.Dynamic], func(), error) {
	desc := collection.DynamicDescriptor(spec.IDAttribute, spec.ModificationAttribute, spec.VersionAttribute)

	store, closeStore, err := a.openStore()
	if err != nil {
		return nil, nil, err
	}

	var ops collection.Operations[collection.Dynamic]
	if withGateway {
		if ops, err = a.gatewayOps(spec, desc); err != nil {
			closeStore()
			return nil, nil, err
		}
	}

	eng, err := colsync.NewEngine(desc, colsync.Options[collection.Dynamic]{
		Key:                     spec.Key,
		Gateway:                 ops,
		Store:                   store,
		LoadFirstRemote:         spec.LoadFirstRemote,
		AutoRefreshOnBackOnline: spec.AutoRefreshOnBackOnline,
		Logger:                  a.log,
	})
	if err != nil {
		closeStore()
		return nil, nil, err
	}
	return eng, closeStore, nil
}

func newRootCmd() *cobra.Command {
	var configPath string
	var verbose bool
	var app *App

	rootCmd := &cobra.Command{
		Use:   "nexussync",
		Short: "Keep local record collections in sync with a remote gateway",
		Long: `nexussync mirrors record collections from a remote gateway into a local
store, lets you create, update, and delete records while offline, and
reconciles everything automatically once connectivity returns.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if configPath != "" {
				config.SetConfigPath(configPath)
			}
			app = NewApp(verbose)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	// app is assigned in PersistentPreRun; commands capture the pointer
	// indirection through the accessor.
	getApp := func() *App { return app }

	rootCmd.AddCommand(newSyncCmd(getApp))
	rootCmd.AddCommand(newRecordsCmd(getApp))
	rootCmd.AddCommand(newStatusCmd(getApp))
	rootCmd.AddCommand(newWatchCmd(getApp))
	rootCmd.AddCommand(newCredentialsCmd(getApp))

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
