package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newThemeCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [on|off]",
		Short:     "Show or set the persisted dark mode preference",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := setup(cmd, v)
			if err != nil {
				return err
			}
			defer cleanup()

			sess := a.newSession()
			if len(args) == 1 {
				var dark bool
				switch strings.ToLower(args[0]) {
				case "on", "dark", "true":
					dark = true
				case "off", "light", "false":
					dark = false
				default:
					return fmt.Errorf("unknown theme setting %q (want on or off)", args[0])
				}
				if err := sess.SetDarkMode(dark); err != nil {
					return fmt.Errorf("save theme preference: %w", err)
				}
			}

			state := "off"
			if sess.UI().DarkMode {
				state = "on"
			}
			printf(cmd.OutOrStdout(), "dark mode: %s (%s)\n", state, a.prefs.Path())
			return nil
		},
	}
}
