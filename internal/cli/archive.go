package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/wakeupclock/alarmstore/internal/dao"
	"github.com/wakeupclock/alarmstore/internal/model"
)

// Archive is the portable YAML form of the whole store.
type Archive struct {
	Alarms   []model.Alarm        `yaml:"alarms"`
	Records  []model.WakeUpRecord `yaml:"records"`
	Settings *model.AppSettings   `yaml:"settings,omitempty"`
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the whole store as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()

			ctx := cmd.Context()
			var archive Archive

			if archive.Alarms, err = dao.NewAlarms(st).All(ctx); err != nil {
				return WrapExitError(ExitFailure, "failed to read alarms", err)
			}
			if archive.Records, err = dao.NewRecords(st).All(ctx); err != nil {
				return WrapExitError(ExitFailure, "failed to read records", err)
			}
			set, ok, err := dao.NewSettings(st).Get(ctx)
			if err != nil {
				return WrapExitError(ExitFailure, "failed to read settings", err)
			}
			if ok {
				archive.Settings = &set
			}

			data, err := yaml.Marshal(&archive)
			if err != nil {
				return WrapExitError(ExitFailure, "failed to encode archive", err)
			}

			if outPath == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return WrapExitError(ExitFailure, "failed to write archive", err)
			}
			return newFormatter(cmd, rootOpts).Success("exported to " + outPath)
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write to file instead of stdout")
	return cmd
}

// NewImportCommand creates the import command. The import replaces the
// entire store contents in one transaction: on any failure the previous
// contents stay intact.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the store contents from a YAML archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to read archive", err)
			}

			var archive Archive
			if err := yaml.Unmarshal(data, &archive); err != nil {
				return WrapExitError(ExitCommandError, "failed to parse archive", err)
			}
			if err := validateArchive(&archive); err != nil {
				return WrapExitError(ExitCommandError, "invalid archive", err)
			}

			st, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := dao.Restore(cmd.Context(), st, archive.Alarms, archive.Records, archive.Settings); err != nil {
				return WrapExitError(ExitFailure, "failed to import archive", err)
			}
			return newFormatter(cmd, rootOpts).Success(fmt.Sprintf(
				"imported %d alarms, %d records", len(archive.Alarms), len(archive.Records)))
		},
	}
}

// validateArchive re-checks enum fields so a hand-edited archive cannot
// smuggle undecodable tags into the store.
func validateArchive(a *Archive) error {
	for _, alarm := range a.Alarms {
		if alarm.ID == "" {
			return fmt.Errorf("alarm with empty id")
		}
		if _, err := model.ParseMissionType(string(alarm.Mission)); err != nil {
			return fmt.Errorf("alarm %s: %w", alarm.ID, err)
		}
		if _, err := model.ParseDifficulty(alarm.Difficulty.Code()); err != nil {
			return fmt.Errorf("alarm %s: %w", alarm.ID, err)
		}
		if _, err := model.ParseRepeatMode(string(alarm.Repeat)); err != nil {
			return fmt.Errorf("alarm %s: %w", alarm.ID, err)
		}
	}
	for _, rec := range a.Records {
		if rec.ID == "" {
			return fmt.Errorf("record with empty id")
		}
	}
	if a.Settings != nil {
		if _, err := model.ParseThemeMode(string(a.Settings.Theme)); err != nil {
			return err
		}
	}
	return nil
}
