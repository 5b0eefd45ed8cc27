package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/jacoelho/jdoc/internal/exit"
)

// Version is set at build time.
var Version = "dev"

// Commands.
const (
	CommandGet   = "get"
	CommandSet   = "set"
	CommandQuery = "query"
	CommandFmt   = "fmt"
)

// Formats.
const (
	FormatJSON      = "json"
	FormatYAML      = "yaml"
	FormatCanonical = "canonical"
)

// StdinFile selects standard input as the document source.
const StdinFile = "-"

var (
	ErrNoArguments           = errors.New("no arguments provided")
	ErrNoCommand             = errors.New("no command specified")
	ErrUnknownCommand        = errors.New("unknown command")
	ErrArgumentCount         = errors.New("wrong number of arguments")
	ErrInvalidAssignment     = errors.New("assignment must be in format key=value")
	ErrInvalidInputFormat    = errors.New("input format must be json or yaml")
	ErrInvalidOutputFormat   = errors.New("output format must be json, yaml or canonical")
	ErrInvalidType           = errors.New("unknown type")
	ErrLinesRequireJSON      = errors.New("line mode requires json input")
	ErrInvalidVariableFormat = errors.New("variable must be in format name=value")
	ErrEmptyVariableName     = errors.New("variable name cannot be empty")
)

// Types accepted by -type.
var Types = []string{"string", "bool", "int", "uint", "float", "document", "array", "any"}

// Config represents the complete configuration for the jdoc tool.
type Config struct {
	Command string
	Args    []string

	// Input and output
	File         string
	InputFormat  string
	OutputFormat string
	Type         string

	// Line mode
	Lines     bool
	RateLimit float64 // Documents per second (0 = unlimited)

	Debug bool

	// Template variables
	Variables map[string]any
}

// Assignment is one key=value argument of the set command.
type Assignment struct {
	Key   string
	Value string
}

// Assignments splits the set command arguments.
func (c *Config) Assignments() ([]Assignment, error) {
	out := make([]Assignment, 0, len(c.Args))
	for _, arg := range c.Args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w, got: %s", ErrInvalidAssignment, arg)
		}
		out = append(out, Assignment{Key: key, Value: value})
	}
	return out, nil
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	switch c.Command {
	case "":
		return ErrNoCommand
	case CommandGet, CommandQuery:
		if len(c.Args) != 1 {
			return fmt.Errorf("%w: %s takes exactly one argument", ErrArgumentCount, c.Command)
		}
	case CommandSet:
		if len(c.Args) == 0 {
			return fmt.Errorf("%w: set takes at least one key=value argument", ErrArgumentCount)
		}
		if _, err := c.Assignments(); err != nil {
			return err
		}
	case CommandFmt:
		if len(c.Args) != 0 {
			return fmt.Errorf("%w: fmt takes no arguments", ErrArgumentCount)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, c.Command)
	}

	if c.InputFormat != FormatJSON && c.InputFormat != FormatYAML {
		return fmt.Errorf("%w, got: %s", ErrInvalidInputFormat, c.InputFormat)
	}

	switch c.OutputFormat {
	case FormatJSON, FormatYAML, FormatCanonical:
	default:
		return fmt.Errorf("%w, got: %s", ErrInvalidOutputFormat, c.OutputFormat)
	}

	if !slices.Contains(Types, c.Type) {
		return fmt.Errorf("%w %q, want one of %s", ErrInvalidType, c.Type, strings.Join(Types, ", "))
	}

	if c.Lines && c.InputFormat != FormatJSON {
		return ErrLinesRequireJSON
	}

	if c.File != StdinFile {
		if _, err := os.Stat(c.File); err != nil {
			return fmt.Errorf("document file %s not found: %w", c.File, err)
		}
	}

	return nil
}

// variablesFlag implements flag.Value for parsing multiple -variable flags.
type variablesFlag map[string]any

// String returns a string representation of the variables flag for flag.Value interface.
func (v variablesFlag) String() string {
	var pairs []string
	for k, val := range v {
		pairs = append(pairs, fmt.Sprintf("%s=%v", k, val))
	}
	return strings.Join(pairs, ",")
}

// Set parses and stores a variable in name=value format for flag.Value interface.
func (v variablesFlag) Set(value string) error {
	parts := strings.SplitN(value, "=", 2)
	if len(parts) != 2 {
		return fmt.Errorf("%w, got: %s", ErrInvalidVariableFormat, value)
	}

	name := strings.TrimSpace(parts[0])
	if name == "" {
		return ErrEmptyVariableName
	}

	v[name] = parts[1]
	return nil
}

// Parse parses command-line arguments and returns a validated Config.
// If parsing fails or help is requested, returns nil config and exit result.
func Parse(args []string) (*Config, *exit.Result) {
	if len(args) == 0 {
		return nil, exit.Errorf("Error: %v\n\n%s", ErrNoArguments, Usage())
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)

	// Suppress the default usage output since we handle it ourselves
	fs.Usage = func() {}
	// Suppress error output since we handle it ourselves
	fs.SetOutput(io.Discard)

	var (
		file         = fs.String("file", StdinFile, "Path to the document file (- for stdin)")
		inputFormat  = fs.String("input", FormatJSON, "Input format: json or yaml")
		outputFormat = fs.String("output", FormatJSON, "Output format: json, yaml or canonical")
		typ          = fs.String("type", "any", "Type used by get and query")
		lines        = fs.Bool("lines", false, "Read newline delimited JSON documents")
		rateLimit    = fs.Float64("rate-limit", 0, "Rate limit in documents per second in line mode (0 for unlimited)")
		debug        = fs.Bool("debug", false, "Print per-document diagnostics to stderr")
		variables    = make(variablesFlag)
		variableFile = fs.String("variable-file", "", "Path to key=value file containing template variables")
		version      = fs.Bool("version", false, "Show version information")
	)

	fs.Var(variables, "variable", "Variable in format name=value (can be used multiple times)")
	fs.BoolVar(version, "v", false, "Show version information")

	if err := fs.Parse(args[1:]); err != nil {
		if err == flag.ErrHelp {
			return nil, exit.Success(Usage())
		}
		return nil, exit.Errorf("Error: failed to parse arguments: %v\n\n%s", err, Usage())
	}

	if *version {
		return nil, exit.Success(fmt.Sprintf("jdoc %s\n", Version))
	}

	positional := fs.Args()
	if len(positional) == 0 {
		return nil, exit.Errorf("Error: %v\n\n%s", ErrNoCommand, Usage())
	}

	// Command-line variables take precedence over file variables
	var finalVariables map[string]any
	if *variableFile != "" {
		fileVariables, err := loadVariableFile(*variableFile)
		if err != nil {
			return nil, exit.Errorf("Error: failed to load variable file: %v\n\n%s", err, Usage())
		}
		finalVariables = make(map[string]any)
		maps.Copy(finalVariables, fileVariables)
	}

	if len(variables) > 0 {
		if finalVariables == nil {
			finalVariables = make(map[string]any)
		}
		maps.Copy(finalVariables, variables)
	}

	config := &Config{
		Command:      positional[0],
		Args:         positional[1:],
		File:         *file,
		InputFormat:  *inputFormat,
		OutputFormat: *outputFormat,
		Type:         *typ,
		Lines:        *lines,
		RateLimit:    *rateLimit,
		Debug:        *debug,
		Variables:    finalVariables,
	}

	if err := config.Validate(); err != nil {
		return nil, exit.Errorf("Error: %v\n\n%s", err, Usage())
	}

	return config, nil
}

// loadVariableFile loads variables from a key=value format file.
// It supports comments (lines starting with #) and empty lines.
func loadVariableFile(filename string) (map[string]any, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	variables := make(map[string]any)
	lines := strings.Split(string(data), "\n")

	for lineNum, line := range lines {
		line = strings.TrimSpace(line)

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid format at line %d: %s (expected key=value)", lineNum+1, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if key == "" {
			return nil, fmt.Errorf("empty key at line %d: %s", lineNum+1, line)
		}

		variables[key] = value
	}

	return variables, nil
}

// Usage returns a usage string for the CLI tool.
func Usage() string {
	return `jdoc - typed access to JSON documents

Usage: jdoc [options] <command> [arguments]

Commands:
  get KEY                 Print a field converted to --type
  set KEY=VALUE ...       Set fields; values are templates, parsed as JSON or kept as strings
  query JSONPATH          Print every value matched by a JSONPath expression
  fmt                     Re-encode the document

Options:
  --file FILE             Path to the document file (default: stdin)
  --input FORMAT          Input format: json, yaml (default: json)
  --output FORMAT         Output format: json, yaml, canonical (default: json)
  --type TYPE             string, bool, int, uint, float, document, array, any (default: any)
  --lines                 Read newline delimited JSON documents
  --rate-limit N          Rate limit in documents per second in line mode (0 for unlimited)
  --variable NAME=VALUE   Template variable (can be used multiple times)
  --variable-file FILE    Path to key=value file containing template variables
  --debug                 Print per-document diagnostics to stderr
  -h, --help              Show this help message
  -v, --version           Show version information

Exit codes:
  0 success, 1 error, 2 key not found, 3 conversion failed

Examples:
  jdoc --file movie.json get title
  jdoc --file movie.json --type uint get release_date
  jdoc --file movie.json set 'id={{uuid}}' read=true
  jdoc --file library.json query '$.novels[*].title'
  jdoc --input yaml --output json fmt < movie.yaml
  jdoc --lines --rate-limit 5 --type string get title < movies.ndjson
`
}
