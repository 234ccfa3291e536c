package fallback

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"cafe-site/internal/model"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// Loader reads a dataset file.
type Loader interface {
	// Load reads the dataset stored under name. The format follows the
	// extension: .json, .json.gz, .yaml or .yml.
	Load(ctx context.Context, name string) (model.Dataset, error)
}

// fileLoader implements Loader for the local file system.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a loader reading dataset files from disk.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "dataset-loader").Logger(),
	}
}

// Load reads a dataset file from disk.
func (l *fileLoader) Load(ctx context.Context, filePath string) (model.Dataset, error) {
	l.logger.Info().Str("file", filePath).Msg("loading dataset file")

	if err := ctx.Err(); err != nil {
		return model.Dataset{}, err
	}

	file, err := os.Open(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to open dataset file")
		return model.Dataset{}, fmt.Errorf("failed to open dataset file %s: %w", filePath, err)
	}
	defer file.Close()

	ds, err := Decode(filePath, file)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to decode dataset file")
		return model.Dataset{}, err
	}

	l.logger.Info().
		Str("file", filePath).
		Int("menu_items", len(ds.MenuItems)).
		Int("categories", len(ds.Categories)).
		Msg("dataset file loaded successfully")

	return ds, nil
}

// Decode parses a dataset in the format implied by name.
//
// Collections missing from the file are taken from Builtin; collections present
// in it, even empty, are used as given. The profile is filled from the builtin
// profile with FillProfile.
func Decode(name string, r io.Reader) (model.Dataset, error) {
	if strings.HasSuffix(name, ".gz") {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return model.Dataset{}, fmt.Errorf("failed to create gzip reader for %s: %w", name, err)
		}
		defer gz.Close()

		r = gz
		name = strings.TrimSuffix(name, ".gz")
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return model.Dataset{}, fmt.Errorf("failed to read dataset %s: %w", name, err)
	}

	switch ext := path.Ext(name); ext {
	case ".json":
	case ".yaml", ".yml":
		if data, err = yamlToJSON(data); err != nil {
			return model.Dataset{}, fmt.Errorf("failed to parse dataset %s: %w", name, err)
		}
	default:
		return model.Dataset{}, fmt.Errorf("unsupported dataset format %q", ext)
	}

	if !gjson.ValidBytes(data) {
		return model.Dataset{}, fmt.Errorf("dataset %s is not valid JSON", name)
	}

	return merge(data)
}

func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil && err != io.EOF {
		return nil, err
	}
	if doc == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(doc)
}

func merge(data []byte) (model.Dataset, error) {
	ds := Builtin()
	doc := gjson.ParseBytes(data)

	collections := []struct {
		key string
		dst any
	}{
		{"menuItems", &ds.MenuItems},
		{"categories", &ds.Categories},
		{"reservations", &ds.Reservations},
	}
	for _, c := range collections {
		v := doc.Get(c.key)
		if !v.IsArray() {
			continue
		}
		if err := json.Unmarshal([]byte(v.Raw), c.dst); err != nil {
			return model.Dataset{}, fmt.Errorf("failed to decode %s: %w", c.key, err)
		}
	}

	if profile := doc.Get("profile"); profile.IsObject() {
		ds.Profile = FillProfile([]byte(profile.Raw), ds.Profile)
	}

	return ds, nil
}
