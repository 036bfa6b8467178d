package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/hoshinonyaruko/sky-node-escape/structs"
)

// AppConfig holds the structure of the configuration
type AppConfig struct {
	SelfPath  string         `json:"selfpath"`
	Port      string         `json:"port"`
	Mode      string         `json:"mode"` // server, terminal or desktop
	DBPath    string         `json:"dbpath"`
	Width     int            `json:"width"`
	Height    int            `json:"height"`
	FPS       int            `json:"fps"`
	Sound     bool           `json:"sound"`
	BlurSigma float64        `json:"blursigma"`
	Tuning    structs.Tuning `json:"tuning"`
}

var (
	instance *AppConfig
	once     sync.Once
	mu       sync.RWMutex
)

// Default returns the configuration written on first run.
func Default() *AppConfig {
	return &AppConfig{
		SelfPath:  "127.0.0.1:38871", // Default value
		Port:      "38871",           // Default value
		Mode:      "server",
		DBPath:    "skynode.db",
		Width:     800,
		Height:    600,
		FPS:       30,
		Sound:     false,
		BlurSigma: 4,
		Tuning:    structs.DefaultTuning(),
	}
}

// LoadConfig initializes and returns the instance of AppConfig
func LoadConfig(filePath string) (*AppConfig, error) {
	var err error
	once.Do(func() {
		var cfg *AppConfig
		// Load the config file if it exists, otherwise create one
		if _, statErr := os.Stat(filePath); os.IsNotExist(statErr) {
			cfg = Default()
			err = saveConfig(filePath, cfg)
		} else {
			cfg, err = loadConfig(filePath)
		}
		if err == nil {
			mu.Lock()
			instance = cfg
			mu.Unlock()
		}
	})
	if err != nil {
		return nil, err
	}
	return Get(), nil
}

// Get returns the current configuration. It is nil before LoadConfig succeeds.
func Get() *AppConfig {
	mu.RLock()
	defer mu.RUnlock()
	return instance
}

// loadConfig decodes the file over the defaults, so missing keys keep their default value.
func loadConfig(filePath string) (*AppConfig, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	cfg := Default()
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", filePath, err)
	}
	return cfg, nil
}

// saveConfig saves the current settings to the file
func saveConfig(filePath string, cfg *AppConfig) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

// GetConfigValue returns the value of the configuration by key
func GetConfigValue(key string) interface{} {
	cfg := Get()
	if cfg == nil {
		return ""
	}
	switch key {
	case "selfpath":
		return cfg.SelfPath
	case "port":
		return cfg.Port
	case "mode":
		return cfg.Mode
	case "dbpath":
		return cfg.DBPath
	case "width":
		return cfg.Width
	case "height":
		return cfg.Height
	case "fps":
		return cfg.FPS
	case "sound":
		return cfg.Sound
	case "blursigma":
		return cfg.BlurSigma
	default:
		return ""
	}
}

// Watch reloads the config file whenever it is written and hands the new
// value to onChange. It returns when done is closed.
func Watch(filePath string, done <-chan struct{}, onChange func(*AppConfig)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// 监听目录，编辑器保存时常常是替换文件
	if err := watcher.Add(filepath.Dir(filePath)); err != nil {
		return fmt.Errorf("watch %s: %w", filePath, err)
	}
	target := filepath.Clean(filePath)

	for {
		select {
		case <-done:
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			cfg, err := loadConfig(filePath)
			if err != nil {
				log.Printf("config: reload failed, keeping old values: %v", err)
				continue
			}
			mu.Lock()
			instance = cfg
			mu.Unlock()
			log.Printf("config: reloaded %s", filePath)
			if onChange != nil {
				onChange(cfg)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Println("config: watch error:", err)
		}
	}
}
