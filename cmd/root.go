// Package cmd provides the root command and CLI setup for embryo.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"embryo.dev/pkg/embryo/internal/adapter"
	"embryo.dev/pkg/embryo/internal/controller"
	"embryo.dev/pkg/embryo/internal/domain"
	m "embryo.dev/pkg/embryo/internal/model"
)

var fs adapter.ProjectFS
var engine adapter.TemplateEngine
var codecs *adapter.CodecRegistry
var hookRegistry *domain.HookRegistry
var ui controller.UI

// searchPathFlag holds extra bundle directories searched after the working
// directory and EMBRYO_PATH entries.
var searchPathFlag []string

// verboseFlag raises the log level to Debug.
var verboseFlag bool

// logFileFlag overrides the log file location.
var logFileFlag string

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewConsoleUI(rootCmd, controller.IsTTY(os.Stdout))
	fs = adapter.NewOsFS()
	engine = adapter.NewTextTemplateEngine()
	codecs = adapter.DefaultCodecRegistry()
	hookRegistry = domain.NewHookRegistry()
}

const rootLongDescription = `Embryo generates project scaffolding from reusable bundles. A bundle holds
a tree spec describing the directory layout, templates rendered against a
merged context, and optional static context, schema and prompt files.
Hatching an embryo materialises its tree into a destination directory and
records the invocation so later embryos can relate to earlier ones.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "embryo",
		Short: "Project scaffolding generator",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(logFileFlag, verboseFlag)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringArrayVar(
			&searchPathFlag, searchPathFlagName,
			viper.GetStringSlice(searchPathConfigKey),
			"extra directory searched for embryo bundles (can be repeated)",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(searchPathFlagName), searchPathConfigKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", viper.GetBool(logVerboseKey), "log at debug level")
	cmd.PersistentFlags().StringVar(&logFileFlag, "log-file", "", "log file location (default "+defaultLogFilename+")")
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// RegisterHooks exposes the hook registry so embedding programs can attach
// lifecycle hooks to named embryos before Execute runs.
func RegisterHooks(name string, hooks domain.Hooks) {
	hookRegistry.Register(name, hooks)
}

func buildResolver() *domain.PathResolver {
	extra := viper.GetStringSlice(searchPathConfigKey)

	return domain.NewPathResolver(fs, domain.SearchPathFromEnv(extra...))
}

func buildIncubator(opts ...domain.Option) *domain.Incubator {
	return domain.NewIncubator(fs, engine, codecs, buildResolver(), hookRegistry, ui, opts...)
}

// parseSetFlags turns repeated key=value flags into a context. Dotted keys
// are literal top-level keys, not nested paths.
func parseSetFlags(pairs []string) (m.Context, error) {
	ctx := m.Context{}

	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("malformed --%s value %q, expected key=value", setFlagName, pair)
		}

		ctx[key] = value
	}

	return ctx, nil
}
