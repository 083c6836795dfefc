// Package config loads and saves extraction settings as YAML or JSON.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"bcseq-core/barcode"
	"bcseq-core/classify"
)

// Barcode is one barcode entry of a configuration file.
type Barcode struct {
	Sequence    string `yaml:"sequence" json:"sequence"`
	Location    string `yaml:"location,omitempty" json:"location,omitempty"`
	Name        string `yaml:"name,omitempty" json:"name,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// ExtractorConfig is everything a run needs besides its inputs.
type ExtractorConfig struct {
	Barcodes          []Barcode `yaml:"barcodes" json:"barcodes"`
	OutputPrefix      string    `yaml:"output_prefix" json:"output_prefix"`
	OutputDir         string    `yaml:"output_dir" json:"output_dir"`
	MaxMismatches     int       `yaml:"max_mismatches" json:"max_mismatches"`
	SearchSoftclipped bool      `yaml:"search_softclipped" json:"search_softclipped"`
	WriteOutputFiles  bool      `yaml:"write_output_files" json:"write_output_files"`
	MergeOrientations bool      `yaml:"merge_orientations" json:"merge_orientations"`
	KeepUnmatched     bool      `yaml:"keep_unmatched" json:"keep_unmatched"`
	SearchBothReads   bool      `yaml:"search_both_reads" json:"search_both_reads"`
	Policy            string    `yaml:"policy" json:"policy"`
	Threads           int       `yaml:"threads" json:"threads"`
	Verbose           bool      `yaml:"verbose" json:"verbose"`
	LogFile           string    `yaml:"log_file,omitempty" json:"log_file,omitempty"`
}

// Default returns the settings used for keys a file leaves out.
func Default() ExtractorConfig {
	return ExtractorConfig{
		OutputDir:        ".",
		WriteOutputFiles: true,
		KeepUnmatched:    true,
		Policy:           classify.FirstMatch.String(),
	}
}

func isJSON(path string) bool { return strings.EqualFold(filepath.Ext(path), ".json") }

// Load reads path (JSON for .json, YAML otherwise) over Default().
func Load(path string) (ExtractorConfig, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if isJSON(path) {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&cfg)
	} else {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&cfg)
	}
	if err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, as JSON for .json and YAML otherwise.
func Save(path string, cfg ExtractorConfig) error {
	var (
		data []byte
		err  error
	)
	if isJSON(path) {
		data, err = json.MarshalIndent(cfg, "", "  ")
		data = append(data, '\n')
	} else {
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err = enc.Encode(cfg); err == nil {
			err = enc.Close()
		}
		data = buf.Bytes()
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks the settings that do not depend on the barcodes.
func (c ExtractorConfig) Validate() error {
	switch {
	case c.OutputPrefix == "":
		return errors.New("output_prefix is required")
	case strings.ContainsRune(c.OutputPrefix, filepath.Separator):
		return fmt.Errorf("output_prefix %q must not contain a path separator (use output_dir)", c.OutputPrefix)
	case c.MaxMismatches < 0:
		return errors.New("max_mismatches must be ≥ 0")
	case c.Threads < 0:
		return errors.New("threads must be ≥ 0")
	}
	if _, err := classify.ParsePolicy(c.Policy); err != nil {
		return err
	}
	return nil
}

// Catalog builds the barcode catalog. Warnings (such as duplicate
// sequences) are returned alongside.
func (c ExtractorConfig) Catalog() (*barcode.Catalog, []string, error) {
	list := make([]barcode.Barcode, 0, len(c.Barcodes))
	for i, b := range c.Barcodes {
		loc, err := barcode.ParseLocation(b.Location)
		if err != nil {
			return nil, nil, fmt.Errorf("barcode %d: %w", i+1, err)
		}
		bc, err := barcode.New(b.Sequence, loc, b.Name, b.Description)
		if err != nil {
			return nil, nil, fmt.Errorf("barcode %d: %w", i+1, err)
		}
		list = append(list, bc)
	}
	return barcode.NewCatalog(list)
}

// FromCatalog lists a catalog's barcodes as configuration entries, with
// sequences normalized and default names filled in.
func FromCatalog(cat *barcode.Catalog) []Barcode {
	out := make([]Barcode, 0, cat.Len())
	for _, b := range cat.Barcodes() {
		out = append(out, Barcode{Sequence: b.Sequence, Location: b.Location.Code(), Name: b.Name, Description: b.Description})
	}
	return out
}
