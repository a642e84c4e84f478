package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-nodeconfig/internal/config"
	"github.com/goliatone/go-nodeconfig/internal/logging"
	"github.com/goliatone/go-nodeconfig/pkg/catalog"
	"github.com/goliatone/go-nodeconfig/pkg/engine"
	"github.com/goliatone/go-nodeconfig/pkg/schema"
)

// errInvalidValues signals a completed validation that reported field errors.
// The report has already been printed, so main only sets the exit code.
var errInvalidValues = errors.New("values are invalid")

type app struct {
	configFile string
	envFile    string
	catalogDir string

	cfg      *config.Config
	log      *zap.SugaredLogger
	registry *catalog.Registry
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "nodecfg",
		Short:         "Validate workflow node configurations",
		Long:          `nodecfg checks node configuration values against the schemas of the node catalog, showing and validating only the fields that are visible for the given values.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "YAML configuration file")
	flags.StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before the environment")
	flags.StringVar(&a.catalogDir, "catalog", "", "directory of catalog files (overrides catalog.dir)")

	root.AddCommand(
		newValidateCmd(a),
		newVisibleCmd(a),
		newKindsCmd(a),
		newPromptCmd(a),
		newImportOpenAPICmd(a),
		newServeCmd(a),
	)
	return root
}

func (a *app) setup() error {
	cfg, err := config.Load(config.Options{File: a.configFile, EnvFile: a.envFile})
	if err != nil {
		return err
	}
	if a.catalogDir != "" {
		cfg.Catalog.Dir = a.catalogDir
	}
	a.cfg = cfg

	log, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	a.log = log

	registry := catalog.NewEmptyRegistry()
	if cfg.Catalog.Builtins {
		registry = catalog.NewRegistry()
	}
	if cfg.Catalog.Dir != "" {
		if err := registry.Load(os.DirFS(cfg.Catalog.Dir)); err != nil {
			return err
		}
		log.Debugw("catalog loaded", "dir", cfg.Catalog.Dir, "kinds", len(registry.Kinds()))
	}
	a.registry = registry
	return nil
}

// schemaFlags selects the schema a command works on: a registered kind, or
// a standalone catalog file.
type schemaFlags struct {
	kind   string
	schema string
}

func (f *schemaFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.kind, "kind", "k", "", "node kind identifier")
	cmd.Flags().StringVarP(&f.schema, "schema", "s", "", "catalog file holding the node kind")
}

func (f *schemaFlags) resolve(registry *catalog.Registry) (string, *engine.Compiled, error) {
	if f.schema == "" {
		if f.kind == "" {
			return "", nil, errors.New("one of --kind or --schema is required")
		}
		compiled, err := registry.Compiled(f.kind)
		return f.kind, compiled, err
	}

	data, err := os.ReadFile(f.schema)
	if err != nil {
		return "", nil, fmt.Errorf("read schema: %w", err)
	}
	kinds, err := catalog.Parse(data, f.schema)
	if err != nil {
		return "", nil, err
	}

	local := catalog.NewEmptyRegistry()
	for _, kind := range kinds {
		if err := local.Register(kind); err != nil {
			return "", nil, err
		}
	}
	id := f.kind
	if id == "" {
		if len(kinds) != 1 {
			return "", nil, fmt.Errorf("%s declares %d kinds; pick one with --kind", f.schema, len(kinds))
		}
		id = kinds[0].Kind
	}
	compiled, err := local.Compiled(id)
	return id, compiled, err
}

// readValues decodes a JSON or YAML object from path, or from stdin when
// path is "-". An empty path yields no values.
func readValues(path string, stdin io.Reader) (schema.Values, error) {
	if path == "" {
		return schema.Values{}, nil
	}

	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read values: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return schema.Values{}, nil
	}

	values := schema.Values{}
	if err := json.Unmarshal(data, &values); err == nil {
		return values, nil
	}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse values %s: %w", path, err)
	}
	return values, nil
}

func checkFormat(format string) error {
	switch format {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf("unknown format %q (want text or json)", format)
	}
}
