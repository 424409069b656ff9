package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with JSON tags and the
// string-friendly [Duration] wrapper for duration fields.
type StructuredJSONConfig struct {
	Auth struct {
		Login         string   `json:"login"`
		PasswordHash  string   `json:"password_hash"`
		TokenSignKey  string   `json:"token_sign_key"`
		TokenIssuer   string   `json:"token_issuer"`
		TokenDuration Duration `json:"token_duration"`
	} `json:"auth,omitempty"`

	Storage struct {
		DB struct {
			Path string `json:"path"`
		} `json:"db,omitempty"`

		Snapshots struct {
			Dir string `json:"dir"`
		} `json:"snapshots,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Backend struct {
		Kind string `json:"kind"`

		File struct {
			Dir string `json:"dir"`
		} `json:"file,omitempty"`

		HTTP struct {
			BaseURL  string   `json:"base_url"`
			Login    string   `json:"login"`
			Password string   `json:"password"`
			Timeout  Duration `json:"timeout"`
		} `json:"http,omitempty"`

		S3 struct {
			Bucket   string `json:"bucket"`
			Key      string `json:"key"`
			Region   string `json:"region"`
			Endpoint string `json:"endpoint"`
		} `json:"s3,omitempty"`
	} `json:"backend,omitempty"`

	Sync struct {
		Debug bool `json:"debug"`
	} `json:"sync,omitempty"`

	Workers struct {
		SyncInterval Duration `json:"sync_interval"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		Auth: Auth{
			Login:         jsonCfg.Auth.Login,
			PasswordHash:  jsonCfg.Auth.PasswordHash,
			TokenSignKey:  jsonCfg.Auth.TokenSignKey,
			TokenIssuer:   jsonCfg.Auth.TokenIssuer,
			TokenDuration: time.Duration(jsonCfg.Auth.TokenDuration),
		},
		Storage: Storage{
			DB: DB{
				Path: jsonCfg.Storage.DB.Path,
			},
			Snapshots: Snapshots{
				Dir: jsonCfg.Storage.Snapshots.Dir,
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Backend: Backend{
			Kind: jsonCfg.Backend.Kind,
			File: FileBackend{Dir: jsonCfg.Backend.File.Dir},
			HTTP: HTTPBackend{
				BaseURL:  jsonCfg.Backend.HTTP.BaseURL,
				Login:    jsonCfg.Backend.HTTP.Login,
				Password: jsonCfg.Backend.HTTP.Password,
				Timeout:  time.Duration(jsonCfg.Backend.HTTP.Timeout),
			},
			S3: S3Backend{
				Bucket:   jsonCfg.Backend.S3.Bucket,
				Key:      jsonCfg.Backend.S3.Key,
				Region:   jsonCfg.Backend.S3.Region,
				Endpoint: jsonCfg.Backend.S3.Endpoint,
			},
		},
		Sync:         Sync{Debug: jsonCfg.Sync.Debug},
		Workers:      Workers{SyncInterval: time.Duration(jsonCfg.Workers.SyncInterval)},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling
// from strings like "1h", "30s".
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
