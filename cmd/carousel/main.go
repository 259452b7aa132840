// Command carousel mounts a review carousel for one entity in the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"review_carousel/internal/adapters/observability"
	"review_carousel/internal/adapters/reviewsapi"
	"review_carousel/internal/adapters/tui"
	"review_carousel/internal/carousel"
	"review_carousel/internal/shared"
	"review_carousel/internal/widget"
)

type options struct {
	baseURL   string
	entityID  string
	interval  time.Duration
	policy    string
	truncate  bool
	recentCap int
	parallel  bool
	logFile   string
	rps       int
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()
	if err := newRootCmd(shared.Load()).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd(cfg shared.Config) *cobra.Command {
	opts := options{
		baseURL:   cfg.WidgetBaseURL,
		entityID:  cfg.WidgetEntityID,
		interval:  cfg.AutoAdvance,
		policy:    cfg.NavPolicy,
		truncate:  cfg.Truncate,
		recentCap: cfg.RecentCap,
		parallel:  cfg.ParallelFetch,
		logFile:   cfg.LogFile,
		rps:       cfg.APIRPS,
	}

	cmd := &cobra.Command{
		Use:   "carousel [entity-id]",
		Short: "Show an entity's reviews as a rotating carousel",
		Long: `Fetches an entity and its most recent reviews from a review feed and
shows the average rating with one review at a time. Reviews rotate on a timer;
arrow keys navigate manually.

Defaults come from the environment (WIDGET_BASE_URL, WIDGET_ENTITY_ID,
WIDGET_AUTO_ADVANCE_MS, WIDGET_NAV_POLICY, WIDGET_RECENT_CAP, WIDGET_TRUNCATE,
WIDGET_PARALLEL_FETCH, API_RPS, LOG_FILE). Set METRICS_ADDR (e.g. :9101) to
expose widget and feed-client metrics at /metrics while the carousel runs.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.entityID = args[0]
			}
			// clamped navigation is manual-only unless asked otherwise
			if p, err := carousel.ParsePolicy(opts.policy); err == nil && p == carousel.Clamp && !cmd.Flags().Changed("interval") {
				opts.interval = 0
			}
			return run(cmd.Context(), cfg.AppEnv, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.baseURL, "base-url", opts.baseURL, "review feed base URL (trailing slash added when missing)")
	f.StringVar(&opts.entityID, "entity", opts.entityID, "entity id")
	f.DurationVar(&opts.interval, "interval", opts.interval, "auto-advance interval; 0 disables")
	f.StringVar(&opts.policy, "policy", opts.policy, "navigation at the ends: wrap or clamp")
	f.BoolVar(&opts.truncate, "truncate", opts.truncate, "truncate long reviews behind \"show more\"")
	f.IntVar(&opts.recentCap, "recent", opts.recentCap, "most recent reviews to show; 0 shows all")
	f.BoolVar(&opts.parallel, "parallel", opts.parallel, "fetch entity and reviews concurrently")
	f.StringVar(&opts.logFile, "log-file", opts.logFile, "write logs to this file (discarded when empty)")
	f.IntVar(&opts.rps, "rps", opts.rps, "max requests per second to the feed")
	return cmd
}

// serveMetrics starts the /metrics listener when METRICS_ADDR is set.
var serveMetrics = observability.Serve

func run(ctx context.Context, env string, opts options) error {
	lw, err := observability.OpenLogFile(opts.logFile)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer lw.Close()
	log.Logger = observability.NewLogger(env, lw)
	serveMetrics()

	policy, err := carousel.ParsePolicy(opts.policy)
	if err != nil {
		return err
	}

	cfg := widget.DefaultConfig(opts.baseURL, opts.entityID)
	cfg.AutoAdvance = opts.interval
	cfg.Policy = policy
	cfg.Truncate = opts.truncate
	cfg.ParallelFetch = opts.parallel

	board := tui.NewBoard()
	cfg.Container = board

	client := reviewsapi.New(opts.rps, reviewsapi.WithRecentCap(opts.recentCap))
	w, err := widget.New(cfg, client)
	if err != nil {
		return err
	}

	mountCtx, cancelMount := context.WithCancel(ctx)
	defer cancelMount()

	model := tui.NewModel(board, func() error { return w.Init(mountCtx) })
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	board.Attach(p.Send)

	return host(p, w, cancelMount)
}

type program interface {
	Run() (tea.Model, error)
}

// host runs p to completion, then abandons any mount still fetching so that
// Teardown does not wait on it.
func host(p program, w *widget.Widget, cancelMount context.CancelFunc) error {
	_, err := p.Run()
	cancelMount()
	w.Teardown()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	log.Info().Str("widget", w.ID()).Msg("carousel closed")
	return nil
}
