// Package cli implements the landscan command line client.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go-land-inspector/internal/client"
	"go-land-inspector/internal/factory"
	"go-land-inspector/internal/repository"
	"go-land-inspector/internal/storage"
	"go-land-inspector/pkg/models"
	"go-land-inspector/pkg/validation"

	"github.com/spf13/viper"
)

const envPrefix = "LANDSCAN"

// Config keys
const (
	keyServer         = "server"
	keyTimeout        = "timeout"
	keyHistoryBackend = "history.backend"
	keyHistoryDir     = "history.dir"
	keyAzureAccount   = "azure.account"
	keyAzureKey       = "azure.key"
	keyAzureContainer = "azure.container"
	keyAzureURL       = "azure.service_url"
)

// Analyzer talks to the analysis API.
type Analyzer interface {
	Analyze(ctx context.Context, up client.Upload) (*models.AnalysisReport, error)
	Health(ctx context.Context) (*models.HealthResponse, error)
}

// App holds the CLI's configuration and lazily built collaborators.
type App struct {
	out       io.Writer
	v         *viper.Viper
	factories *factory.ComponentFactory

	analyzer Analyzer
	history  repository.HistoryRepository
	fetcher  storage.ImageFetcher
	uploads  *validation.UploadValidator
	urls     *validation.URLValidator
}

// NewApp creates the CLI application writing its output to out.
func NewApp(out io.Writer) *App {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault(keyServer, "http://localhost:5001")
	v.SetDefault(keyTimeout, client.DefaultTimeout)
	v.SetDefault(keyHistoryBackend, string(factory.FileStorage))
	v.SetDefault(keyHistoryDir, defaultHistoryDir())
	v.SetDefault(keyAzureContainer, "landscan-history")

	uploads := validation.NewUploadValidator()
	return &App{
		out:       out,
		v:         v,
		factories: factory.NewComponentFactory(),
		uploads:   uploads,
		urls:      validation.NewURLValidator(),
		fetcher:   storage.NewHTTPImageFetcher(uploads.MaxSize()),
	}
}

// Execute runs the root command with os.Args.
func (a *App) Execute(ctx context.Context) error {
	return a.RootCommand().ExecuteContext(ctx)
}

// readConfigFile loads an optional config file. An explicit path must
// exist; the default location may be absent.
func (a *App) readConfigFile(path string) error {
	if path != "" {
		a.v.SetConfigFile(path)
	} else {
		a.v.SetConfigName("landscan")
		if dir, err := os.UserConfigDir(); err == nil {
			a.v.AddConfigPath(filepath.Join(dir, "landscan"))
		}
		a.v.AddConfigPath(".")
	}

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func (a *App) analyzerClient() Analyzer {
	if a.analyzer == nil {
		a.analyzer = client.NewClient(a.v.GetString(keyServer), a.timeout())
	}
	return a.analyzer
}

func (a *App) timeout() time.Duration {
	if d := a.v.GetDuration(keyTimeout); d > 0 {
		return d
	}
	return client.DefaultTimeout
}

func (a *App) historyRepo() (repository.HistoryRepository, error) {
	if a.history != nil {
		return a.history, nil
	}

	store, err := a.factories.StorageFactory.CreateStorage(factory.StorageConfig{
		Type: factory.StorageType(a.v.GetString(keyHistoryBackend)),
		Dir:  a.v.GetString(keyHistoryDir),
		Azure: storage.AzureConfig{
			AccountName: a.v.GetString(keyAzureAccount),
			AccountKey:  a.v.GetString(keyAzureKey),
			Container:   a.v.GetString(keyAzureContainer),
			ServiceURL:  a.v.GetString(keyAzureURL),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	a.history = repository.NewHistoryRepository(store)
	return a.history, nil
}

func defaultHistoryDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "landscan", "history")
	}
	return ".landscan"
}
