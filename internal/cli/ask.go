package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour/styles"

	"github.com/interpretive-systems/futuresight/internal/acquire"
	"github.com/interpretive-systems/futuresight/internal/analysis"
	"github.com/interpretive-systems/futuresight/internal/chartexport"
	"github.com/interpretive-systems/futuresight/internal/session"
	"github.com/interpretive-systems/futuresight/internal/theme"
	"github.com/interpretive-systems/futuresight/internal/tui/components"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const askWidth = 80

type askFlags struct {
	chart string
	chat  string
	out   string
}

func newAskCmd(v *viper.Viper) *cobra.Command {
	var flags askFlags
	cmd := &cobra.Command{
		Use:   "ask FILE",
		Short: "Upload a dataset, then generate a chart and/or ask a question without the TUI",
		Example: `  futuresight ask sales.csv --chart "monthly revenue as a bar chart" --out revenue.png
  futuresight ask sales.xlsx --chat "which region grew fastest?"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := setup(cmd, v)
			if err != nil {
				return err
			}
			defer cleanup()
			return runAsk(cmd.Context(), cmd.OutOrStdout(), a, args[0], flags)
		},
	}
	cmd.Flags().StringVar(&flags.chart, "chart", "", "Describe the chart to generate")
	cmd.Flags().StringVar(&flags.chat, "chat", "", "Question to ask about the dataset")
	cmd.Flags().StringVarP(&flags.out, "out", "o", "", "Write the generated chart to this PNG file")
	return cmd
}

// runAsk drives one session through upload, then chart and chat in
// parallel. Requests run on their own goroutines; every session transition
// happens here.
func runAsk(ctx context.Context, w io.Writer, a *app, path string, flags askFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if flags.out != "" && flags.chart == "" {
		return errors.New("--out requires --chart")
	}
	sess := a.newSession()
	th := theme.For(sess.UI().DarkMode)

	if err := sess.Stage(acquire.FromPath(path)); err != nil {
		return errors.New(sess.Notice())
	}
	ut, err := sess.BeginUpload()
	if err != nil {
		return err
	}
	f := ut.File
	desc, uerr := a.client.Upload(ctx, f.Name, f.MIMEType, bytes.NewReader(f.Content))
	sess.CompleteUpload(ut, desc, uerr)
	res := sess.UploadResult()
	if !res.Success {
		return fmt.Errorf("upload %s: %s", f.Name, res.Message)
	}
	printf(w, "%s\n\n", th.SuccessText(res.Message))
	printf(w, "%s\n", strings.Join(components.DatasetLines(sess.Dataset(), askWidth, th), "\n"))

	var (
		chartT   session.ChartTicket
		chatT    session.ChatTicket
		wantChat bool
	)
	if flags.chart != "" {
		if chartT, err = sess.BeginChart(flags.chart); err != nil {
			return err
		}
	}
	if flags.chat != "" {
		if chatT, wantChat = sess.BeginChat(flags.chat); !wantChat {
			return errors.New("chat message is blank")
		}
	}

	var (
		chartRes *analysis.ChartResult
		chartErr error
		reply    string
		chatErr  error
	)
	var g errgroup.Group
	if flags.chart != "" {
		g.Go(func() error {
			chartRes, chartErr = a.client.GenerateChart(ctx, chartT.Request)
			return nil
		})
	}
	if wantChat {
		g.Go(func() error {
			reply, chatErr = a.client.Chat(ctx, chatT.Request)
			return nil
		})
	}
	_ = g.Wait() // outcomes are carried in the captured values

	var failed []string
	if flags.chart != "" {
		sess.CompleteChart(chartT, chartRes, chartErr)
		cv := components.NewChartView()
		cv.SetExpanded(true)
		cv.SetStatus(sess.ChartStatus())
		cv.SetResult(sess.Chart())
		printf(w, "\n%s\n", strings.Join(cv.Render(askWidth, 0, th), "\n"))
		if st := sess.ChartStatus(); st == nil || !st.Success {
			failed = append(failed, "chart")
		} else if flags.out != "" {
			if err := chartexport.ExportFile(sess.Chart(), flags.out); err != nil {
				return fmt.Errorf("export chart: %w", err)
			}
			a.logger.Info("Chart exported", zap.String("path", flags.out))
			printf(w, "%s\n", th.SuccessText("Chart saved to "+flags.out))
		}
	}
	if wantChat {
		sess.CompleteChat(chatT, reply, chatErr)
		chat := components.NewChatView()
		if !isTerminal(w) {
			chat.SetStyle(styles.NoTTYStyle)
		}
		printf(w, "\n%s\n", chat.Render(sess.History(), askWidth, "", th))
		if chatErr != nil {
			failed = append(failed, "chat")
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("%s request failed", strings.Join(failed, " and "))
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
