package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"lifelog/internal/app"
	"lifelog/internal/config"
	"lifelog/internal/db"
	"lifelog/internal/domain"
	"lifelog/internal/engine"
	"lifelog/internal/repo"
	"lifelog/internal/server"
)

var rootCmd = &cobra.Command{
	Use:   "ll",
	Short: "Lifelog CLI",
	Long: `Lifelog tracks personal activities and derives an always-current menu from them.
Core concepts:
- Workspace: the .lifelog directory holding the database; config lives in lifelog.yml next to it.
- Activity types: the things you do (work, gaming, reading). Toggle types have a start and an end label.
- Activities: timestamped log entries against a type, optionally annotated ("Game: Hades").
- Categories: named buckets that group types in the menu; types without one land in Uncategorized.
- Menu: derived fresh on every request, never stored. Live toggles float to the top.
- Catalog: games, movies, and TV shows you can reference from activity descriptions.
- Event log: diary of changes, view with 'll log tail'.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		workspace := viper.GetString("workspace")
		if _, err := db.EnsureWorkspace(workspace); err != nil {
			return err
		}
		return nil
	},
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("LIFELOG")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "workspace directory")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	_ = viper.BindPFlag("workspace", rootCmd.PersistentFlags().Lookup("workspace"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func registerCommands() {
	rootCmd.AddCommand(menuCmd())
	rootCmd.AddCommand(activityCmd())
	rootCmd.AddCommand(typeCmd())
	rootCmd.AddCommand(categoryCmd())
	rootCmd.AddCommand(gameCmd())
	rootCmd.AddCommand(movieCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(logCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(dbCmd())
	rootCmd.AddCommand(serveCmd())
}

func menuCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Show the derived activity menu",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				m, err := e.Menu(ctx)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(m)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"", "Label", "Status", "Elapsed", "Category"})
				for _, entry := range m.Started {
					tw.AppendRow(table.Row{entry.Emoji, entry.Label, entry.Status, entry.Elapsed, entry.Category})
				}
				for _, bucket := range m.Categories {
					for _, entry := range bucket.Entries {
						tw.AppendRow(table.Row{entry.Emoji, entry.Label, entry.Status, entry.Elapsed, bucket.Name})
					}
				}
				for _, entry := range m.Uncategorized {
					tw.AppendRow(table.Row{entry.Emoji, entry.Label, entry.Status, entry.Elapsed, entry.Category})
				}
				tw.Render()
				return nil
			})
		},
	}
	return cmd
}

func activityCmd() *cobra.Command {
	act := &cobra.Command{Use: "activity", Short: "Log and inspect activities"}
	act.AddCommand(activityLogCmd())
	act.AddCommand(activityListCmd())
	act.AddCommand(activityRmCmd())
	return act
}

func activityLogCmd() *cobra.Command {
	var typeName, status, description, at string
	var typeID int64
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Log an activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				if typeID == 0 && typeName != "" {
					t, err := findTypeByName(ctx, e.Repo, typeName)
					if err != nil {
						return err
					}
					typeID = t.ID
				}
				a, err := e.LogActivity(ctx, engine.LogActivityOptions{
					TypeID:      typeID,
					Status:      status,
					Description: description,
					Timestamp:   at,
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(a)
			})
		},
	}
	cmd.Flags().StringVar(&typeName, "type", "", "activity type name")
	cmd.Flags().Int64Var(&typeID, "type-id", 0, "activity type id")
	cmd.Flags().StringVar(&status, "status", "", "status: none, started, not-started")
	cmd.Flags().StringVar(&description, "description", "", "free-form description")
	cmd.Flags().StringVar(&at, "at", "", "timestamp (RFC3339, default now)")
	return cmd
}

func activityListCmd() *cobra.Command {
	var limit, page int
	var typeID int64
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List logged activities",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				var (
					rows []domain.ActivityRow
					err  error
				)
				if typeID > 0 {
					rows, err = r.ListActivitiesByType(ctx, typeID, limit, (page-1)*limit)
				} else {
					rows, err = r.ListActivities(ctx, limit, (page-1)*limit)
				}
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(rows)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "", "Type", "Status", "When", "Description"})
				for _, row := range rows {
					when := time.Unix(row.Timestamp, 0).Local().Format("2006-01-02 15:04")
					tw.AppendRow(table.Row{row.ID, row.Emoji, row.ActivityType, row.Status, when, row.Description})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "page size")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().Int64Var(&typeID, "type-id", 0, "filter by activity type id")
	return cmd
}

func activityRmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a logged activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				var id int64
				if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil {
					return fmt.Errorf("invalid id %q", args[0])
				}
				changes, err := r.DeleteActivity(ctx, id)
				if err != nil {
					return err
				}
				if changes == 0 {
					return fmt.Errorf("activity %d not found", id)
				}
				fmt.Println("deleted", id)
				return nil
			})
		},
	}
	return cmd
}

func typeCmd() *cobra.Command {
	typ := &cobra.Command{Use: "type", Short: "Manage activity types"}
	typ.AddCommand(typeAddCmd())
	typ.AddCommand(typeListCmd())
	typ.AddCommand(typeRmCmd())
	return typ
}

func typeAddCmd() *cobra.Command {
	var name, startLabel, endLabel, category, emoji string
	var toggle bool
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an activity type",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				var categoryID int64
				if category != "" {
					c, err := e.Repo.GetCategoryByName(ctx, category)
					if err != nil {
						return fmt.Errorf("category %q: %w", category, err)
					}
					categoryID = c.ID
				}
				t, err := e.CreateActivityType(ctx, engine.CreateActivityTypeOptions{
					Name:       name,
					Toggle:     toggle,
					StartLabel: startLabel,
					EndLabel:   endLabel,
					CategoryID: categoryID,
					Emoji:      emoji,
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(t)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "type name")
	cmd.Flags().BoolVar(&toggle, "toggle", false, "toggle type with start/end labels")
	cmd.Flags().StringVar(&startLabel, "start-label", "", "label shown while stopped")
	cmd.Flags().StringVar(&endLabel, "end-label", "", "label shown while running")
	cmd.Flags().StringVar(&category, "category", "", "category name")
	cmd.Flags().StringVar(&emoji, "emoji", "", "menu emoji")
	return cmd
}

func typeListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List activity types",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				types, err := r.ListActivityTypes(ctx)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(types)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "", "Name", "Toggle", "Category"})
				for _, t := range types {
					tw.AppendRow(table.Row{t.ID, t.Emoji, t.Name, t.Toggle, t.Category})
				}
				tw.Render()
				return nil
			})
		},
	}
	return cmd
}

func typeRmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete an activity type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				var id int64
				if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil {
					return fmt.Errorf("invalid id %q", args[0])
				}
				changes, err := r.DeleteActivityType(ctx, id)
				if err != nil {
					return err
				}
				if changes == 0 {
					return fmt.Errorf("activity type %d not found", id)
				}
				fmt.Println("deleted", id)
				return nil
			})
		},
	}
	return cmd
}

func categoryCmd() *cobra.Command {
	cat := &cobra.Command{Use: "category", Short: "Manage categories"}
	cat.AddCommand(namedAddCmd("category", func(ctx context.Context, r repo.Repo, name string) (int64, error) {
		return r.InsertCategory(ctx, name)
	}))
	cat.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				items, err := r.ListCategories(ctx)
				if err != nil {
					return err
				}
				return printJSONOrTable(items)
			})
		},
	})
	cat.AddCommand(namedRmCmd("category", func(ctx context.Context, r repo.Repo, id int64) (int64, error) {
		return r.DeleteCategory(ctx, id)
	}))
	return cat
}

func gameCmd() *cobra.Command {
	game := &cobra.Command{Use: "game", Short: "Manage the game catalog"}
	game.AddCommand(namedAddCmd("game", func(ctx context.Context, r repo.Repo, name string) (int64, error) {
		return r.InsertGame(ctx, name)
	}))
	game.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List games",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				items, err := r.ListGames(ctx)
				if err != nil {
					return err
				}
				return printJSONOrTable(items)
			})
		},
	})
	game.AddCommand(namedRmCmd("game", func(ctx context.Context, r repo.Repo, id int64) (int64, error) {
		return r.DeleteGame(ctx, id)
	}))
	return game
}

func movieCmd() *cobra.Command {
	movie := &cobra.Command{Use: "movie", Short: "Manage the movie catalog"}
	movie.AddCommand(namedAddCmd("movie", func(ctx context.Context, r repo.Repo, title string) (int64, error) {
		return r.InsertMovie(ctx, title)
	}))
	movie.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List movies",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				items, err := r.ListMovies(ctx)
				if err != nil {
					return err
				}
				return printJSONOrTable(items)
			})
		},
	})
	movie.AddCommand(namedRmCmd("movie", func(ctx context.Context, r repo.Repo, id int64) (int64, error) {
		return r.DeleteMovie(ctx, id)
	}))
	return movie
}

func showCmd() *cobra.Command {
	show := &cobra.Command{Use: "show", Short: "Manage the TV show catalog"}
	show.AddCommand(namedAddCmd("show", func(ctx context.Context, r repo.Repo, title string) (int64, error) {
		return r.InsertTVShow(ctx, title)
	}))
	show.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List TV shows",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				items, err := r.ListTVShows(ctx)
				if err != nil {
					return err
				}
				return printJSONOrTable(items)
			})
		},
	})
	show.AddCommand(namedRmCmd("show", func(ctx context.Context, r repo.Repo, id int64) (int64, error) {
		return r.DeleteTVShow(ctx, id)
	}))
	return show
}

func namedAddCmd(noun string, insert func(context.Context, repo.Repo, string) (int64, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: fmt.Sprintf("Add a %s", noun),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				id, err := insert(ctx, r, args[0])
				if err != nil {
					if errors.Is(err, repo.ErrConflict) {
						return fmt.Errorf("%s %q already exists", noun, args[0])
					}
					return err
				}
				fmt.Println("created", id)
				return nil
			})
		},
	}
}

func namedRmCmd(noun string, remove func(context.Context, repo.Repo, int64) (int64, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: fmt.Sprintf("Delete a %s", noun),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				var id int64
				if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil {
					return fmt.Errorf("invalid id %q", args[0])
				}
				changes, err := remove(ctx, r, id)
				if err != nil {
					return err
				}
				if changes == 0 {
					return fmt.Errorf("%s %d not found", noun, id)
				}
				fmt.Println("deleted", id)
				return nil
			})
		},
	}
}

func logCmd() *cobra.Command {
	log := &cobra.Command{
		Use:   "log",
		Short: "Event log",
	}
	log.AddCommand(logTailCmd())
	return log
}

func logTailCmd() *cobra.Command {
	var n int
	var evtType string
	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Tail events",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				events, err := r.LatestEvents(ctx, n, evtType)
				if err != nil {
					return err
				}
				return printJSONOrTable(events)
			})
		},
	}
	cmd.Flags().IntVar(&n, "n", 20, "number of events")
	cmd.Flags().StringVar(&evtType, "type", "", "event type filter")
	return cmd
}

func configCmd() *cobra.Command {
	cfg := &cobra.Command{Use: "config", Short: "Manage workspace config"}
	cfg.AddCommand(configInitCmd())
	cfg.AddCommand(configShowCmd())
	cfg.AddCommand(configCheckCmd())
	return cfg
}

func configInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default lifelog.yml",
		RunE: func(cmd *cobra.Command, args []string) error {
			workspace := viper.GetString("workspace")
			path := config.Path(workspace)
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			if err := os.WriteFile(path, []byte(config.GenerateDefault()), 0o644); err != nil {
				return err
			}
			fmt.Println("wrote", path)
			return nil
		},
	}
	return cmd
}

func configShowCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective config",
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg *config.Config
			var err error
			if file != "" {
				cfg, err = config.FromFile(file)
			} else {
				cfg, err = config.LoadOptional(viper.GetString("workspace"))
			}
			if err != nil {
				return err
			}
			return printJSON(cfg)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "read config from this file instead of the workspace")
	return cmd
}

func configCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the workspace lifelog.yml",
		RunE: func(cmd *cobra.Command, args []string) error {
			workspace := viper.GetString("workspace")
			if _, err := config.Load(workspace); err != nil {
				return err
			}
			fmt.Println(config.Path(workspace), "ok")
			return nil
		},
	}
	return cmd
}

func dbCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "db", Short: "Workspace database utilities"}
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the database file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(db.Path(viper.GetString("workspace")))
			return nil
		},
	})
	return cmd
}

func serveCmd() *cobra.Command {
	var addr, basePath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			workspace := viper.GetString("workspace")
			e, closeDB, err := app.Open(cmd.Context(), workspace)
			if err != nil {
				return err
			}
			defer closeDB()
			logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
			apiKey := e.Config.Auth.APIKey
			if apiKey == "" {
				apiKey = os.Getenv("LIFELOG_API_KEY")
			}
			if apiKey == "" {
				return fmt.Errorf("api key required: set auth.api_key in lifelog.yml or LIFELOG_API_KEY")
			}
			if basePath == "" {
				basePath = e.Config.Server.BasePath
			}
			handler, err := server.New(server.Config{
				Engine:   e,
				BasePath: basePath,
				Auth:     server.AuthConfig{APIKey: apiKey, Logger: logger},
				Logger:   logger,
			})
			if err != nil {
				return err
			}
			if addr == "" {
				addr = e.Config.Server.Addr
			}
			srv := &http.Server{Addr: addr, Handler: handler}
			go func() {
				<-cmd.Context().Done()
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				srv.Shutdown(ctx)
			}()
			logger.Info().Str("addr", addr).Str("base_path", basePath).Msg("serving Lifelog API")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().StringVar(&basePath, "base-path", "", "base path for API routes")
	return cmd
}

func findTypeByName(ctx context.Context, r repo.Repo, name string) (domain.ActivityType, error) {
	types, err := r.ListActivityTypes(ctx)
	if err != nil {
		return domain.ActivityType{}, err
	}
	for _, t := range types {
		if strings.EqualFold(t.Name, name) {
			return t, nil
		}
	}
	return domain.ActivityType{}, fmt.Errorf("activity type %q not found", name)
}

func withEngine(ctx context.Context, fn func(context.Context, engine.Engine) error) error {
	e, closeDB, err := app.Open(ctx, viper.GetString("workspace"))
	if err != nil {
		return err
	}
	defer closeDB()
	return fn(ctx, e)
}

func withRepo(ctx context.Context, fn func(context.Context, repo.Repo) error) error {
	return withEngine(ctx, func(ctx context.Context, e engine.Engine) error {
		return fn(ctx, e.Repo)
	})
}

func printJSONOrTable(v any) error {
	if viper.GetBool("json") {
		return printJSON(v)
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
