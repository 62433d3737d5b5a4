package config

import (
	"encoding/json"
	"os"
	"sync"
)

// Config はアプリ設定です。見積ストアのバックエンドは起動時に
// StoreDriver で明示的に選択します（sqlite または postgres）。
type Config struct {
	StoreDriver     string   `json:"storeDriver"`
	SQLitePath      string   `json:"sqlitePath"`
	PostgresDSN     string   `json:"postgresDSN"`
	ImageFolderPath string   `json:"imageFolderPath"`
	FontPaths       []string `json:"fontPaths"`
	MasterCSVPath   string   `json:"masterCSVPath"`
}

var (
	cfg Config
	mu  sync.RWMutex
)

const configFilePath = "./mitsumori_config.json"

func applyDefaults(c *Config) {
	if c.StoreDriver == "" {
		c.StoreDriver = "sqlite"
	}
	if c.SQLitePath == "" {
		c.SQLitePath = "./mitsumori.db"
	}
	if c.ImageFolderPath == "" {
		c.ImageFolderPath = "images"
	}
}

func LoadConfig() (Config, error) {
	mu.Lock()
	defer mu.Unlock()

	file, err := os.ReadFile(configFilePath)
	if err != nil {
		if os.IsNotExist(err) {
			applyDefaults(&cfg)
			return cfg, nil
		}
		return Config{}, err
	}

	var tempCfg Config
	if err := json.Unmarshal(file, &tempCfg); err != nil {
		return Config{}, err
	}
	applyDefaults(&tempCfg)
	cfg = tempCfg

	return cfg, nil
}

func SaveConfig(newCfg Config) error {
	mu.Lock()
	defer mu.Unlock()

	applyDefaults(&newCfg)

	file, err := json.MarshalIndent(newCfg, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(configFilePath, file, 0644); err != nil {
		return err
	}
	cfg = newCfg
	return nil
}

func GetConfig() Config {
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}
