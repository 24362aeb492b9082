package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"embryo.dev/pkg/embryo/internal/controller"
	"embryo.dev/pkg/embryo/internal/domain"
	m "embryo.dev/pkg/embryo/internal/model"
)

var hatchSetFlags []string
var hatchContextFlag string
var hatchInteractiveFlag bool
var hatchManifestFlag string
var hatchParallelFlag int

// hatchCmd represents the hatch command.
var hatchCmd = newHatchCmd()

const hatchLongDescription = `Hatch an embryo into a destination directory (default: current directory).

The embryo is located by name across the working directory, the EMBRYO_PATH
environment variable and any --embryo-path directories. Context values merge
in order: the bundle's static context, then --context file values, then
--set overrides.

With --manifest, a YAML list of {embryo, dest, context} entries is hatched
instead, up to --parallel at a time into distinct destinations.`

func newHatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hatch [embryo] [destination]",
		Short: "Generate a project from an embryo bundle",
		Long:  hatchLongDescription,
		Args:  cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if hatchManifestFlag != "" {
				return runManifest(cmd, hatchManifestFlag)
			}

			if len(args) == 0 {
				return fmt.Errorf("an embryo name is required unless --%s is given", manifestFlagName)
			}

			overrides, err := parseSetFlags(hatchSetFlags)
			if err != nil {
				return err
			}

			hatchArgs := domain.HatchArgs{
				Name:        args[0],
				Overrides:   overrides,
				ContextFile: m.Path(hatchContextFlag),
			}
			if len(args) > 1 {
				hatchArgs.Dest = m.Path(args[1])
			}

			var opts []domain.Option
			if hatchInteractiveFlag {
				opts = append(opts, domain.WithPrompter(func(prompts []m.Prompt) (map[string]string, error) {
					return controller.RunPrompts(prompts, cmd.InOrStdin(), cmd.OutOrStdout())
				}))
			}

			_, err = buildIncubator(opts...).Hatch(cmd.Context(), hatchArgs)

			return err
		},
	}

	configureHatchFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(hatchCmd)
}

func configureHatchFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&hatchSetFlags, setFlagName, "s", nil, "set a context value as key=value (can be repeated)")
	cmd.Flags().StringVarP(&hatchContextFlag, contextFlagName, "c", "", "external context file merged over the bundle's static context")
	cmd.Flags().BoolVarP(&hatchInteractiveFlag, interactiveFlagName, "i", false, "prompt for missing context values")
	cmd.Flags().StringVarP(&hatchManifestFlag, manifestFlagName, "m", "", "hatch every entry of a YAML manifest file")
	cmd.Flags().IntVarP(&hatchParallelFlag, parallelFlagName, "p", viper.GetInt(parallelConfigKey), "number of concurrent manifest hatches")
	bindFlagToConfig(cmd.Flags().Lookup(parallelFlagName), parallelConfigKey)
}

func runManifest(cmd *cobra.Command, path string) error {
	data, err := fs.ReadFile(m.Path(path))
	if err != nil {
		return fmt.Errorf("reading manifest %s: %w", path, err)
	}

	var entries []domain.ManifestEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parsing manifest %s: %w", path, err)
	}

	if len(entries) == 0 {
		return fmt.Errorf("manifest %s lists no embryos", path)
	}

	parallel := viper.GetInt(parallelConfigKey)

	return domain.HatchBatch(cmd.Context(), func() *domain.Incubator {
		return buildIncubator()
	}, entries, parallel)
}
