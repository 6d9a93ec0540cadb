package factory

import (
	"fmt"
	"strings"
	"time"

	"go-land-inspector/internal/llm"
	"go-land-inspector/internal/storage"
)

// GeneratorType names a model backend
type GeneratorType string

const (
	// GeminiGenerator calls the Gemini REST API
	GeminiGenerator GeneratorType = "gemini"
)

// StorageType represents different types of history backends
type StorageType string

const (
	// FileStorage keeps blobs as files in a local directory
	FileStorage StorageType = "file"
	// AzureStorage keeps blobs in an Azure Blob container
	AzureStorage StorageType = "azure"
	// MemoryStorage keeps blobs in process memory
	MemoryStorage StorageType = "memory"
)

// GeneratorConfig carries the settings every generator backend understands
type GeneratorConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// StorageConfig selects and configures a history backend
type StorageConfig struct {
	Type  StorageType
	Dir   string
	Azure storage.AzureConfig
}

// GeneratorFactory creates model clients
type GeneratorFactory interface {
	CreateGenerator(generatorType GeneratorType, cfg GeneratorConfig) (llm.Generator, error)
}

// StorageFactory creates storage implementations
type StorageFactory interface {
	CreateStorage(cfg StorageConfig) (storage.BlobStore, error)
}

type generatorFactory struct{}

// NewGeneratorFactory creates a new generator factory
func NewGeneratorFactory() GeneratorFactory {
	return &generatorFactory{}
}

// CreateGenerator creates a generator based on the specified type
func (f *generatorFactory) CreateGenerator(generatorType GeneratorType, cfg GeneratorConfig) (llm.Generator, error) {
	switch GeneratorType(strings.ToLower(string(generatorType))) {
	case GeminiGenerator, "":
		return llm.NewGeminiClient(llm.GeminiConfig{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
		})
	default:
		return nil, fmt.Errorf("unsupported generator type: %s", generatorType)
	}
}

type storageFactory struct{}

// NewStorageFactory creates a new storage factory
func NewStorageFactory() StorageFactory {
	return &storageFactory{}
}

// CreateStorage creates a storage implementation based on the specified type
func (f *storageFactory) CreateStorage(cfg StorageConfig) (storage.BlobStore, error) {
	switch StorageType(strings.ToLower(string(cfg.Type))) {
	case FileStorage, "":
		return storage.NewFileStorage(cfg.Dir)
	case AzureStorage:
		return storage.NewAzureStorage(cfg.Azure)
	case MemoryStorage:
		return storage.NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

// ComponentFactory combines all factories
type ComponentFactory struct {
	GeneratorFactory GeneratorFactory
	StorageFactory   StorageFactory
}

// NewComponentFactory creates a new component factory
func NewComponentFactory() *ComponentFactory {
	return &ComponentFactory{
		GeneratorFactory: NewGeneratorFactory(),
		StorageFactory:   NewStorageFactory(),
	}
}
