package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"pokerlog/config"
	"pokerlog/internal/bot"
	"pokerlog/internal/db"
	pokernats "pokerlog/internal/nats"
	"pokerlog/internal/server"

	"github.com/spf13/cobra"
)

func newServeCmd(cfg func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP webhook and, if enabled, the NATS transport",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			c := cfg()
			a, err := newApp(ctx, c)
			if err != nil {
				return err
			}
			defer a.Close()

			if c.NATS.Enabled {
				natsConn, js, err := pokernats.Connect(&c.NATS)
				if err != nil {
					return err
				}
				defer natsConn.Close()

				if err := pokernats.ConfigureStream(js, &c.NATS.Stream); err != nil {
					return err
				}
				transport := pokernats.NewTransport(js, a.dispatcher, &c.NATS)
				if err := transport.Start(ctx); err != nil {
					return err
				}
				defer transport.Stop()
			}

			return server.StartServer(ctx, &c.Server, a.dispatcher)
		},
	}
}

func newConsoleCmd(cfg func() *config.Config) *cobra.Command {
	var conversation string
	cmd := &cobra.Command{
		Use:   "console",
		Short: "Chat with the bot on stdin/stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), cfg())
			if err != nil {
				return err
			}
			defer a.Close()
			return runConsole(cmd.Context(), a.dispatcher, conversation, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&conversation, "conversation", "console", "conversation id to use")
	return cmd
}

// runConsole treats every input line as one chat message.
func runConsole(ctx context.Context, d *bot.Dispatcher, conversation string, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprintln(out, "Type /start to begin, an empty line or EOF to quit.")
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			return nil
		}
		resp, err := d.Dispatch(ctx, conversation, line)
		if err != nil {
			slog.Error("Failed to dispatch message", "error", err)
		}
		printResponse(out, resp)
	}
	return scanner.Err()
}

func printResponse(out io.Writer, resp bot.Response) {
	for _, msg := range resp.Messages {
		if len(msg.Image) > 0 {
			fmt.Fprintf(out, "[image, %d bytes]\n", len(msg.Image))
		}
		if msg.Text != "" {
			fmt.Fprintln(out, msg.Text)
		}
		for _, row := range msg.Keyboard {
			fmt.Fprintf(out, "  [%s]\n", strings.Join(row, "] ["))
		}
	}
}

func newMigrateCmd(cfg func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := db.InitDB(&cfg().Database)
			if err != nil {
				return err
			}
			if err := db.Migrate(conn); err != nil {
				return fmt.Errorf("failed to migrate database: %w", err)
			}
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}
}

func newConfigCmd(cfg func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := *cfg()
			if c.Database.Password != "" {
				c.Database.Password = "***"
			}
			if c.Session.Redis.Password != "" {
				c.Session.Redis.Password = "***"
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(c)
		},
	}
}
