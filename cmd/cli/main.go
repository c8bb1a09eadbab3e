package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JKKN-Institutions/yi-connect-sub000/internal/api"
	"github.com/JKKN-Institutions/yi-connect-sub000/internal/config"
	"github.com/JKKN-Institutions/yi-connect-sub000/internal/output"
	"github.com/JKKN-Institutions/yi-connect-sub000/pkg/clients/calendarclient"
	"github.com/JKKN-Institutions/yi-connect-sub000/pkg/core/services"
	"github.com/JKKN-Institutions/yi-connect-sub000/pkg/db"
	"github.com/JKKN-Institutions/yi-connect-sub000/pkg/postgres"
	"github.com/JKKN-Institutions/yi-connect-sub000/pkg/utils"
	"github.com/JKKN-Institutions/yi-connect-sub000/pkg/utils/logging"
)

// App holds the application dependencies
type App struct {
	cfg      *config.Config
	database *postgres.DB
	logger   *zap.Logger
	ctx      context.Context
}

var (
	env string
	app *App
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "yi-connect",
		Short: "Yi Connect CLI - Manage chapter events, matching, and succession",
		Long:  `A CLI tool for managing chapter events, volunteer and trainer matching, leadership succession, and admin queues.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil {
				if app.database != nil {
					app.database.Close()
				}
				if app.logger != nil {
					app.logger.Sync()
				}
			}
		},
	}

	// Add persistent environment flag
	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")

	// Add all commands
	rootCmd.AddCommand(createEventCmd())
	rootCmd.AddCommand(listEventsCmd())
	rootCmd.AddCommand(publishEventCmd())
	rootCmd.AddCommand(matchCmd("matchVolunteers", "Rank volunteers for an event", services.MatchVolunteers))
	rootCmd.AddCommand(matchCmd("matchTrainers", "Rank trainers for an event", services.MatchTrainers))
	rootCmd.AddCommand(defineCycleCmd())
	rootCmd.AddCommand(advancePhaseCmd())
	rootCmd.AddCommand(evaluateCmd())
	rootCmd.AddCommand(leaderboardCmd())
	rootCmd.AddCommand(healthCardsCmd())
	rootCmd.AddCommand(memberRequestsCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, and the database
func initApp() error {
	var err error
	app = &App{
		ctx: context.Background(),
	}

	// Config first: it decides where log files go
	app.cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	app.logger, err = logging.InitLogger(env, app.cfg.LogFilePath)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.logger.Info("Starting application",
		zap.String("environment", env),
		zap.String("chapter", app.cfg.ChapterName))

	app.logger.Info("Connecting to database")
	app.database, err = postgres.NewDB(app.ctx, app.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := app.database.RunMigrations(app.ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	app.logger.Info("Database initialized successfully")

	return nil
}

// calendarPublisher builds the calendar client on demand. Publishing is the
// only operation that needs Google credentials, so the OAuth flow runs only
// when it is used.
func calendarPublisher() (*calendarclient.Client, error) {
	if app.cfg.CalendarID == "" {
		return nil, nil
	}

	oauthCfg, err := config.LoadOAuthClient(env)
	if err != nil {
		return nil, fmt.Errorf("failed to load OAuth client config: %w", err)
	}

	oauthConfig, err := utils.BuildOAuthConfig(oauthCfg)
	if err != nil {
		return nil, err
	}

	token, err := utils.Authorize(app.ctx, oauthConfig, env)
	if err != nil {
		return nil, fmt.Errorf("failed to obtain OAuth token: %w", err)
	}

	return calendarclient.NewClient(app.ctx, oauthConfig.Client(app.ctx, token), app.cfg.CalendarID)
}

// Command definitions

func createEventCmd() *cobra.Command {
	var form services.EventForm
	var start, end, deadline, skills, recurrence, series string

	cmd := &cobra.Command{
		Use:   "createEvent",
		Short: "Create a draft event, or a series with --recurrence or --series",
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if form.StartTime, err = time.Parse(time.RFC3339, start); err != nil {
				return fmt.Errorf("invalid --start: %w", err)
			}
			if form.EndTime, err = time.Parse(time.RFC3339, end); err != nil {
				return fmt.Errorf("invalid --end: %w", err)
			}
			if form.RSVPDeadline, err = time.Parse(time.RFC3339, deadline); err != nil {
				return fmt.Errorf("invalid --deadline: %w", err)
			}
			if skills != "" {
				form.RequiredSkills = strings.Split(skills, ",")
			}

			if series != "" {
				override := app.cfg.FindSeriesOverride(series)
				if override == nil {
					return fmt.Errorf("no series override named %q in config", series)
				}
				recurrence = override.RRule
				if override.Capacity != nil {
					form.Capacity = *override.Capacity
				}
				if override.Venue != "" {
					form.Venue = override.Venue
				}
			}

			if recurrence != "" {
				created, err := services.CreateEventSeries(app.ctx, app.database, app.logger, form, recurrence)
				if err != nil {
					return err
				}
				fmt.Printf("\nCreated %d draft events:\n", len(created))
				for _, e := range created {
					fmt.Printf("  %s  %s\n", e.ID, e.StartTime.Format("2006-01-02 15:04"))
				}
				return nil
			}

			event, err := services.CreateEvent(app.ctx, app.database, app.logger, form)
			if err != nil {
				return err
			}
			fmt.Printf("\nDraft event created: %s\n", event.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&form.Title, "title", "", "Event title")
	cmd.Flags().StringVar(&form.Description, "description", "", "Event description")
	cmd.Flags().StringVar(&form.Category, "category", "", "Event category")
	cmd.Flags().StringVar(&start, "start", "", "Start time (RFC3339)")
	cmd.Flags().StringVar(&end, "end", "", "End time (RFC3339)")
	cmd.Flags().StringVar(&form.Venue, "venue", "", "Venue name")
	cmd.Flags().StringVar(&form.VenuePincode, "pincode", "", "Venue pincode")
	cmd.Flags().StringVar(&form.VenueDistrict, "district", "", "Venue district")
	cmd.Flags().StringVar(&form.VenueState, "state", "", "Venue state")
	cmd.Flags().IntVar(&form.Capacity, "capacity", 0, "Attendance capacity")
	cmd.Flags().StringVar(&deadline, "deadline", "", "RSVP deadline (RFC3339)")
	cmd.Flags().StringVar(&skills, "skills", "", "Required skills, comma separated")
	cmd.Flags().StringVar(&recurrence, "recurrence", "", "Recurrence rule (RRULE) for a series")
	cmd.Flags().StringVar(&series, "series", "", "Named series override from the config")
	cmd.MarkFlagRequired("title")
	cmd.MarkFlagRequired("category")
	cmd.MarkFlagRequired("start")
	cmd.MarkFlagRequired("end")
	cmd.MarkFlagRequired("venue")
	cmd.MarkFlagRequired("capacity")
	cmd.MarkFlagRequired("deadline")

	return cmd
}

func listEventsCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "listEvents",
		Short: "List events, optionally filtered by status",
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := app.database.ListEvents(app.ctx, status)
			if err != nil {
				return err
			}
			return output.Table(events)
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status (draft, published, completed)")
	return cmd
}

func publishEventCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "publishEvent <event_id>",
		Short: "Publish a draft event to the chapter calendar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			publisher, err := calendarPublisher()
			if err != nil {
				return err
			}

			var p services.CalendarPublisher
			if publisher != nil {
				p = publisher
			} else {
				fmt.Println("No calendarID configured - skipping calendar push")
			}

			event, err := services.PublishEvent(app.ctx, app.database, p, app.logger, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("\nEvent published: %s\n", event.Title)
			if event.CalendarEventID != "" {
				fmt.Printf("Calendar entry: %s\n", event.CalendarEventID)
			}
			return nil
		},
	}
}

type matchFunc func(ctx context.Context, events db.EventStore, store db.MatchingStore, logger *zap.Logger, eventID string, now time.Time) (*services.MatchOutcome, error)

func matchCmd(use, short string, match matchFunc) *cobra.Command {
	var confirm int

	cmd := &cobra.Command{
		Use:   use + " <event_id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outcome, err := match(app.ctx, app.database, app.database, app.logger, args[0], time.Now())
			if err != nil {
				return err
			}

			// Show the configured shortlist; confirmation still works
			// against the full ranking
			display := *outcome
			if len(display.Candidates) > app.cfg.MatchPoolSize {
				display.Candidates = display.Candidates[:app.cfg.MatchPoolSize]
			}
			if err := output.Table(&display); err != nil {
				return err
			}

			if confirm > 0 {
				assignments, err := services.ConfirmAssignments(app.ctx, app.database, app.logger, outcome, confirm, time.Now())
				if err != nil {
					return err
				}
				fmt.Printf("\nConfirmed %d assignments.\n", len(assignments))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&confirm, "confirm", 0, "Persist assignments for the top N candidates")
	return cmd
}

func defineCycleCmd() *cobra.Command {
	var role string
	var year int
	var nominationsClose, applicationsClose, evaluationsClose string
	var criteria []string

	cmd := &cobra.Command{
		Use:   "defineCycle",
		Short: "Define a leadership succession cycle with evaluation criteria",
		RunE: func(cmd *cobra.Command, args []string) error {
			nc, err := time.Parse("2006-01-02", nominationsClose)
			if err != nil {
				return fmt.Errorf("invalid --nominations-close: %w", err)
			}
			ac, err := time.Parse("2006-01-02", applicationsClose)
			if err != nil {
				return fmt.Errorf("invalid --applications-close: %w", err)
			}
			ec, err := time.Parse("2006-01-02", evaluationsClose)
			if err != nil {
				return fmt.Errorf("invalid --evaluations-close: %w", err)
			}

			inputs := make([]services.CriterionInput, 0, len(criteria))
			for _, c := range criteria {
				input, err := parseCriterion(c)
				if err != nil {
					return err
				}
				inputs = append(inputs, input)
			}

			result, err := services.DefineCycle(app.ctx, app.database, app.logger, role, year, nc, ac, ec, inputs)
			if err != nil {
				return err
			}

			fmt.Printf("\nCycle created: %s (%s %d)\n", result.Cycle.ID, result.Cycle.RoleName, result.Cycle.Year)
			fmt.Printf("Criteria:\n")
			for _, c := range result.Criteria {
				fmt.Printf("  %-24s weight %.1f, max %.0f\n", c.Label, c.Weight, c.MaxScore)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", "", "Role the cycle elects")
	cmd.Flags().IntVar(&year, "year", 0, "Cycle year")
	cmd.Flags().StringVar(&nominationsClose, "nominations-close", "", "Nominations close date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&applicationsClose, "applications-close", "", "Applications close date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&evaluationsClose, "evaluations-close", "", "Evaluations close date (YYYY-MM-DD)")
	cmd.Flags().StringArrayVar(&criteria, "criterion", nil, "Criterion as label:weight:max, repeatable")
	cmd.MarkFlagRequired("role")
	cmd.MarkFlagRequired("year")
	cmd.MarkFlagRequired("nominations-close")
	cmd.MarkFlagRequired("applications-close")
	cmd.MarkFlagRequired("evaluations-close")
	cmd.MarkFlagRequired("criterion")

	return cmd
}

// parseCriterion parses "label:weight:max" into a CriterionInput
func parseCriterion(s string) (services.CriterionInput, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return services.CriterionInput{}, fmt.Errorf("criterion %q must be label:weight:max", s)
	}
	weight, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return services.CriterionInput{}, fmt.Errorf("criterion %q has invalid weight: %w", s, err)
	}
	max, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return services.CriterionInput{}, fmt.Errorf("criterion %q has invalid max: %w", s, err)
	}
	return services.CriterionInput{Label: parts[0], Weight: weight, MaxScore: max}, nil
}

func advancePhaseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "advancePhase <cycle_id>",
		Short: "Advance a succession cycle to its next phase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cycle, err := services.AdvancePhase(app.ctx, app.database, app.logger, args[0], time.Now())
			if err != nil {
				return err
			}
			fmt.Printf("\nCycle %s is now in the %s phase.\n", cycle.ID, cycle.Phase)
			return nil
		},
	}
}

func evaluateCmd() *cobra.Command {
	var evaluator string
	var scores []string

	cmd := &cobra.Command{
		Use:   "evaluate <cycle_id> <application_id>",
		Short: "Record an evaluator's scores for a candidate application",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs := make([]services.ScoreInput, 0, len(scores))
			for _, s := range scores {
				input, err := parseScore(s)
				if err != nil {
					return err
				}
				inputs = append(inputs, input)
			}

			result, err := services.EvaluateCandidate(app.ctx, app.database, app.logger, args[0], args[1], evaluator, inputs, time.Now())
			if err != nil {
				return err
			}

			fmt.Printf("\nComposite: %.1f\n", result.Composite.TotalWeightedPercentage)
			for _, c := range result.Composite.Breakdown {
				fmt.Printf("  %-36s normalized %.1f, contributes %.1f\n", c.CriterionID, c.Normalized, c.Contribution)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&evaluator, "evaluator", "", "Evaluator member ID")
	cmd.Flags().StringArrayVar(&scores, "score", nil, "Score as criterionID:raw[:comment], repeatable")
	cmd.MarkFlagRequired("evaluator")
	cmd.MarkFlagRequired("score")

	return cmd
}

// parseScore parses "criterionID:raw[:comment]" into a ScoreInput
func parseScore(s string) (services.ScoreInput, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) < 2 {
		return services.ScoreInput{}, fmt.Errorf("score %q must be criterionID:raw[:comment]", s)
	}
	raw, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return services.ScoreInput{}, fmt.Errorf("score %q has invalid raw value: %w", s, err)
	}
	input := services.ScoreInput{CriterionID: parts[0], RawScore: raw}
	if len(parts) == 3 {
		input.Comment = parts[2]
	}
	return input, nil
}

func leaderboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard <cycle_id>",
		Short: "Show the candidate leaderboard for a succession cycle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			standings, err := services.CandidateLeaderboard(app.ctx, app.database, app.database, app.logger, args[0])
			if err != nil {
				return err
			}
			return output.Table(standings)
		},
	}
}

func healthCardsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "healthCards",
		Short: "Show per-program health card progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			progress, err := services.HealthCardDashboard(app.ctx, app.database, app.logger)
			if err != nil {
				return err
			}
			return output.Table(progress)
		},
	}
}

func memberRequestsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "memberRequests",
		Short: "Show the open member request queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			requests, err := services.OpenRequests(app.ctx, app.database, app.logger)
			if err != nil {
				return err
			}
			return output.Table(requests)
		},
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			publisher, err := calendarPublisher()
			if err != nil {
				app.logger.Warn("Calendar publishing unavailable", zap.Error(err))
			}

			var p services.CalendarPublisher
			if publisher != nil {
				p = publisher
			}

			router := api.NewRouter(app.database, p, app.logger, app.cfg.AllowedOrigins)

			app.logger.Info("HTTP server listening", zap.String("addr", app.cfg.ListenAddr))
			return http.ListenAndServe(app.cfg.ListenAddr, router)
		},
	}
}
