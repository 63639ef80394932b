package main

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"todoapp/internal/adapter/rpcclient"
	"todoapp/internal/adapter/store"
	appservice "todoapp/internal/app/service"
	"todoapp/internal/app/syncctl"
	"todoapp/internal/config"
	"todoapp/internal/core/domain"
	"todoapp/internal/core/ports"
	"todoapp/pkg/translator"
)

// errReported marks a failure already shown to the user as a notification.
var errReported = errors.New("reported")

type cli struct {
	out         io.Writer
	server      string
	databaseURL string
	lang        string
	verbose     bool
	logger      *zap.Logger
}

func newRootCmd(out io.Writer) *cobra.Command {
	cfg := config.LoadConfig()
	c := &cli{out: out, logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "todoctl",
		Short:         "Manage todos",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				logger, err := zap.NewDevelopment()
				if err != nil {
					return err
				}
				c.logger = logger
			}
			zap.ReplaceGlobals(c.logger)
			translator.InitTranslator(translator.Config{SupportedLanguages: translator.SupportedLanguages})
			return nil
		},
	}

	root.PersistentFlags().StringVar(&c.server, "server", cfg.ApiURL, "API server base URL")
	root.PersistentFlags().StringVar(&c.databaseURL, "database-url", "", "open this database directly instead of calling the server")
	root.PersistentFlags().StringVar(&c.lang, "lang", cfg.Lang, "message language (en, ja)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log requests and failures")

	root.AddCommand(
		c.listCmd(),
		c.addCmd(),
		c.toggleCmd("done", "Mark a todo as completed", true),
		c.toggleCmd("undone", "Mark a todo as not completed", false),
		c.renameCmd(),
		c.removeCmd(),
		c.restoreCmd(),
	)

	return root
}

func (c *cli) listCmd() *cobra.Command {
	var (
		status  string
		deleted bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List todos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConfigured(cmd.Context(), func(ctl *syncctl.Controller) error {
				return ctl.Configure(domain.StatusFilter(status), deleted)
			}, nil)
		},
	}
	cmd.Flags().StringVarP(&status, "status", "s", string(domain.StatusAll), "all, active or completed")
	cmd.Flags().BoolVar(&deleted, "deleted", false, "also show recently deleted todos")
	return cmd
}

func (c *cli) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <title>",
		Short: "Add a todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd.Context(), func(ctx context.Context, ctl *syncctl.Controller) error {
				return ctl.Create(ctx, args[0])
			})
		},
	}
}

func (c *cli) toggleCmd(use, short string, completed bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd.Context(), func(ctx context.Context, ctl *syncctl.Controller) error {
				return ctl.Toggle(ctx, args[0], completed)
			})
		},
	}
}

func (c *cli) renameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <title>",
		Short: "Change the title of a todo",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd.Context(), func(ctx context.Context, ctl *syncctl.Controller) error {
				return ctl.Rename(ctx, args[0], args[1])
			})
		},
	}
}

func (c *cli) removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Delete a todo (it can be restored)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd.Context(), func(ctx context.Context, ctl *syncctl.Controller) error {
				return ctl.Remove(ctx, args[0])
			})
		},
	}
}

func (c *cli) restoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <id>",
		Short: "Restore a deleted todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd.Context(), func(ctx context.Context, ctl *syncctl.Controller) error {
				return ctl.Restore(ctx, args[0])
			})
		},
	}
}

// run loads the current list, applies action, waits for it to settle and
// renders the result.
func (c *cli) run(ctx context.Context, action func(context.Context, *syncctl.Controller) error) error {
	return c.runConfigured(ctx, nil, action)
}

// runConfigured is run with a setup step applied before the first Load.
func (c *cli) runConfigured(
	ctx context.Context,
	configure func(*syncctl.Controller) error,
	action func(context.Context, *syncctl.Controller) error,
) error {
	if ctx == nil {
		ctx = context.Background()
	}

	service, closeService, err := c.service(ctx)
	if err != nil {
		return err
	}
	defer closeService()

	ctl := syncctl.New(service, syncctl.WithLogger(c.logger), syncctl.WithLanguage(c.lang))
	if configure != nil {
		if err := configure(ctl); err != nil {
			return err
		}
	}
	if err := ctl.Load(ctx); err != nil {
		return err
	}
	if action != nil {
		if err := action(ctx, ctl); err != nil {
			return err
		}
	}
	ctl.Wait()

	state := ctl.Snapshot()
	newRenderer(c.out, c.lang).Render(state)

	if state.Notification != nil && state.Notification.Status == syncctl.NotificationError {
		return errReported
	}
	return nil
}

// service talks to the database directly when --database-url is set and to
// the API server otherwise.
func (c *cli) service(ctx context.Context) (ports.TodoService, func(), error) {
	if c.databaseURL == "" {
		return rpcclient.New(c.server, rpcclient.WithLanguage(c.lang)), func() {}, nil
	}

	s, err := store.Open(ctx, c.databaseURL, c.verbose, c.logger)
	if err != nil {
		return nil, nil, err
	}
	closeStore := func() {
		if err := s.Close(); err != nil {
			c.logger.Warn("failed to close record store", zap.Error(err))
		}
	}
	return appservice.NewTodoService(s.Repository), closeStore, nil
}
