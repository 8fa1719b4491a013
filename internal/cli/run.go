package cli

import (
	"github.com/interpretive-systems/futuresight/internal/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type runFlags struct {
	startDir  string
	exportDir string
}

func newRunCmd(v *viper.Viper) *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open the TUI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, v, flags)
		},
	}
	cmd.Flags().StringVarP(&flags.startDir, "dir", "d", ".", "Directory the file picker opens in")
	cmd.Flags().StringVar(&flags.exportDir, "export-dir", ".", "Directory exported charts are written to")
	return cmd
}

func runTUI(cmd *cobra.Command, v *viper.Viper, flags runFlags) error {
	a, cleanup, err := setup(cmd, v)
	if err != nil {
		return err
	}
	defer cleanup()

	return tui.Run(tui.Options{
		Session:   a.newSession(),
		Backend:   a.client,
		Logger:    a.logger,
		StartDir:  flags.startDir,
		ExportDir: flags.exportDir,
		APIURL:    a.cfg.APIURL,
		PrefsPath: a.prefs.Path(),
	})
}
