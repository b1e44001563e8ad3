package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/nixpig/jobsh/internal/parser"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

const defaultPrompt = "jobsh$ "

type config struct {
	prompt      string
	debug       bool
	maxArgs     int
	maxWordSize int

	configPath string
}

// fileConfig is the YAML form of config. Keys absent from the file are nil
// and leave the flag value alone.
type fileConfig struct {
	Prompt      *string `yaml:"prompt"`
	Debug       *bool   `yaml:"debug"`
	MaxArgs     *int    `yaml:"max_args"`
	MaxWordSize *int    `yaml:"max_word_size"`
}

func bindFlags(fs *pflag.FlagSet, cfg *config) {
	fs.StringVar(&cfg.prompt, "prompt", defaultPrompt, "Prompt printed before each line")
	fs.BoolVar(&cfg.debug, "debug", false, "Enable debug logs")

	fs.StringVar(
		&cfg.configPath,
		"config",
		"",
		"Path to YAML config file",
	)

	fs.IntVar(
		&cfg.maxArgs,
		"max-args",
		parser.DefaultMaxArgs,
		"Maximum number of arguments per command",
	)

	fs.IntVar(
		&cfg.maxWordSize,
		"max-word-size",
		parser.DefaultMaxWordSize,
		"Maximum length in bytes of a single word",
	)
}

// loadFile fills in every setting from the config file whose flag was not
// set explicitly.
func (c *config) loadFile(fs *pflag.FlagSet) error {
	if c.configPath == "" {
		return nil
	}

	data, err := os.ReadFile(c.configPath)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config '%s': %w", c.configPath, err)
	}

	if fc.Prompt != nil && !fs.Changed("prompt") {
		c.prompt = *fc.Prompt
	}

	if fc.Debug != nil && !fs.Changed("debug") {
		c.debug = *fc.Debug
	}

	if fc.MaxArgs != nil && !fs.Changed("max-args") {
		c.maxArgs = *fc.MaxArgs
	}

	if fc.MaxWordSize != nil && !fs.Changed("max-word-size") {
		c.maxWordSize = *fc.MaxWordSize
	}

	return nil
}

func (c *config) validate() error {
	if c.maxArgs < 1 {
		return errors.New("max-args must be at least 1")
	}

	if c.maxWordSize < 2 {
		return errors.New("max-word-size must be at least 2")
	}

	return nil
}
