package rowproject

import (
	"fmt"
	"strings"

	"github.com/segmentio/rowproject/compress"
)

const (
	// DefaultInputPath is the parquet file read when no input path is set.
	DefaultInputPath = "train-00000-of-00001-cced8514c7ed782a.parquet"
	// DefaultOutputPath is the JSON file written when no output path is set.
	DefaultOutputPath = "train.json"
	// DefaultColumnName is the column holding the conversation turns.
	DefaultColumnName = "conversation_b"
	// DefaultTurns is the number of leading turns projected from each row.
	DefaultTurns = 2
	// DefaultBatchSize is the number of rows read from a row group at once.
	DefaultBatchSize = 64
)

// The Config type carries configuration options for the row projector.
//
// Config implements the Option interface so it can be used directly as
// argument to the Project function when needed, for example:
//
//	stats, err := rowproject.Project(ctx, &rowproject.Config{
//		InputPath: "arena.parquet",
//		Streaming: true,
//	})
type Config struct {
	InputPath   string
	OutputPath  string
	ColumnName  string
	Turns       int
	BatchSize   int
	Streaming   bool
	UTF8        bool
	Compression compress.Codec
}

// DefaultConfig returns a new Config value initialized with the default
// projector configuration: ASCII-escaped JSON, two turns per row, whole table
// in memory, compression picked from the output file name.
func DefaultConfig() *Config {
	return &Config{
		InputPath:  DefaultInputPath,
		OutputPath: DefaultOutputPath,
		ColumnName: DefaultColumnName,
		Turns:      DefaultTurns,
		BatchSize:  DefaultBatchSize,
	}
}

// NewConfig constructs a new projector configuration applying the options
// passed as arguments.
//
// The function returns an non-nil error if some of the options carried invalid
// configuration values.
func NewConfig(options ...Option) (*Config, error) {
	config := DefaultConfig()
	config.Apply(options...)
	return config, config.Validate()
}

// Apply applies the given list of options to c.
func (c *Config) Apply(options ...Option) {
	for _, opt := range options {
		opt.Configure(c)
	}
}

// Configure applies configuration options from c to config.
//
// Boolean options cannot be told apart from their zero value, so they are only
// ever turned on.
func (c *Config) Configure(config *Config) {
	*config = Config{
		InputPath:   coalesceString(c.InputPath, config.InputPath),
		OutputPath:  coalesceString(c.OutputPath, config.OutputPath),
		ColumnName:  coalesceString(c.ColumnName, config.ColumnName),
		Turns:       coalesceInt(c.Turns, config.Turns),
		BatchSize:   coalesceInt(c.BatchSize, config.BatchSize),
		Streaming:   c.Streaming || config.Streaming,
		UTF8:        c.UTF8 || config.UTF8,
		Compression: coalesceCodec(c.Compression, config.Compression),
	}
}

// Validate returns a non-nil error if the configuration of c is invalid.
func (c *Config) Validate() error {
	const baseName = "rowproject.(*Config)."
	return errorInvalidConfiguration(
		validateNotEmpty(baseName+"InputPath", c.InputPath),
		validateNotEmpty(baseName+"OutputPath", c.OutputPath),
		validateNotEmpty(baseName+"ColumnName", c.ColumnName),
		validatePositiveInt(baseName+"Turns", c.Turns),
		validatePositiveInt(baseName+"BatchSize", c.BatchSize),
	)
}

// codec returns the compression codec used for the output file.
func (c *Config) codec() compress.Codec {
	if c.Compression != nil {
		return c.Compression
	}
	return CodecForPath(c.OutputPath)
}

// Option is an interface implemented by types that carry configuration
// options for the row projector.
type Option interface {
	Configure(*Config)
}

// InputPath sets the path of the parquet file to read.
func InputPath(path string) Option {
	return option(func(config *Config) { config.InputPath = path })
}

// OutputPath sets the path of the JSON file to write. An existing file at this
// path is replaced once the whole output has been produced.
func OutputPath(path string) Option {
	return option(func(config *Config) { config.OutputPath = path })
}

// ColumnName sets the name of the top-level column holding the conversation
// cells.
func ColumnName(name string) Option {
	return option(func(config *Config) { config.ColumnName = name })
}

// Turns sets the number of leading elements projected from every cell.
//
// Defaults to 2.
func Turns(n int) Option {
	return option(func(config *Config) { config.Turns = n })
}

// BatchSize sets the number of rows read at once from row groups.
//
// Defaults to 64.
func BatchSize(n int) Option {
	return option(func(config *Config) { config.BatchSize = n })
}

// Streaming enables the streaming mode, where records are encoded as rows are
// read instead of loading the whole table first.
func Streaming(enabled bool) Option {
	return option(func(config *Config) { config.Streaming = enabled })
}

// EscapeASCII controls whether non-ASCII characters of strings are written as
// \u escape sequences.
//
// Defaults to true.
func EscapeASCII(enabled bool) Option {
	return option(func(config *Config) { config.UTF8 = !enabled })
}

// Compression forces the codec used to compress the output file. When unset
// the codec is picked from the output file extension.
func Compression(codec compress.Codec) Option {
	return option(func(config *Config) { config.Compression = codec })
}

type option func(*Config)

func (opt option) Configure(config *Config) { opt(config) }

func coalesceInt(i1, i2 int) int {
	if i1 != 0 {
		return i1
	}
	return i2
}

func coalesceString(s1, s2 string) string {
	if s1 != "" {
		return s1
	}
	return s2
}

func coalesceCodec(c1, c2 compress.Codec) compress.Codec {
	if c1 != nil {
		return c1
	}
	return c2
}

func validatePositiveInt(optionName string, optionValue int) error {
	if optionValue > 0 {
		return nil
	}
	return errorInvalidOptionValue(optionName, optionValue)
}

func validateNotEmpty(optionName string, optionValue string) error {
	if optionValue != "" {
		return nil
	}
	return errorInvalidOptionValue(optionName, optionValue)
}

func errorInvalidOptionValue(optionName string, optionValue interface{}) error {
	return fmt.Errorf("invalid option value: %s: %v", optionName, optionValue)
}

func errorInvalidConfiguration(reasons ...error) error {
	var err *invalidConfiguration

	for _, reason := range reasons {
		if reason != nil {
			if err == nil {
				err = new(invalidConfiguration)
			}
			err.reasons = append(err.reasons, reason)
		}
	}

	if err != nil {
		return err
	}

	return nil
}

type invalidConfiguration struct {
	reasons []error
}

func (err *invalidConfiguration) Error() string {
	errorMessage := new(strings.Builder)
	for _, reason := range err.reasons {
		errorMessage.WriteString(reason.Error())
		errorMessage.WriteString("\n")
	}
	errorString := errorMessage.String()
	if errorString != "" {
		errorString = errorString[:len(errorString)-1]
	}
	return errorString
}

var (
	_ Option = (*Config)(nil)
)
