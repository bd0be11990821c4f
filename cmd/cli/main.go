package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/wadjakorntonsri/wedding-invite/pkg/adapters/repository"
	"github.com/wadjakorntonsri/wedding-invite/pkg/config"
	"github.com/wadjakorntonsri/wedding-invite/pkg/core/domain"
	"github.com/wadjakorntonsri/wedding-invite/pkg/core/services"
	"github.com/wadjakorntonsri/wedding-invite/pkg/logger"
	"github.com/wadjakorntonsri/wedding-invite/pkg/tracker"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "wedding-cli",
		Short:         "Manage guest links and visitor records",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newLinkCmd(), newTrackCmd(), newVisitorsCmd(), newExportCmd(), newImportCmd(), newClearCmd())
	return root
}

func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load("local")
	if err != nil {
		return nil, nil, err
	}
	lg := logger.New(logger.Options{AppName: "wedding-cli", Level: "warn"})
	return cfg, lg, nil
}

// openService opens the configured store directly, bypassing HTTP
func openService(ctx context.Context) (*services.VisitorService, func() error, error) {
	cfg, lg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	store, closeFn, err := repository.Open(ctx, cfg, lg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}
	return services.NewVisitorService(store, domain.DeploymentMode(cfg.DeploymentMode), lg), closeFn, nil
}

func newLinkCmd() *cobra.Command {
	var baseURL string
	cmd := &cobra.Command{
		Use:     "link <guest name>...",
		Short:   "Print personalised invitation links",
		Example: `  wedding-cli link "Uncle Rajan" "Aunt Meena"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if baseURL == "" {
				cfg, _, err := loadConfig()
				if err != nil {
					return err
				}
				baseURL = cfg.BaseURL
			}
			return printGuestLinks(cmd.OutOrStdout(), baseURL, args)
		},
	}
	cmd.Flags().StringVar(&baseURL, "base-url", "", "site origin (defaults to BASE_URL)")
	return cmd
}

func printGuestLinks(w io.Writer, baseURL string, names []string) error {
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		link := domain.NewGuestLink(baseURL, name)
		if _, err := fmt.Fprintf(w, "%s\t%s\n", link.DisplayName, link.URL); err != nil {
			return err
		}
	}
	return nil
}

func newTrackCmd() *cobra.Command {
	var server, guestSlug, userAgent string
	cmd := &cobra.Command{
		Use:   "track",
		Short: "Send a test visit to a running tracking API",
		RunE: func(cmd *cobra.Command, args []string) error {
			guest, _ := domain.Deslugify(guestSlug)
			emitter := tracker.NewEmitter(server, zap.NewNop())
			res := emitter.Track(cmd.Context(), tracker.NewSession(), guest, tracker.PageContext{UserAgent: userAgent})
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVar(&server, "server", "http://localhost:3001", "tracking API origin")
	cmd.Flags().StringVar(&guestSlug, "guest", "", "guest slug, e.g. uncle-rajan")
	cmd.Flags().StringVar(&userAgent, "user-agent", "wedding-cli", "user agent to report")
	return cmd
}

func newVisitorsCmd() *cobra.Command {
	var server, password string
	cmd := &cobra.Command{
		Use:   "visitors",
		Short: "List visitors from a running tracking API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("ADMIN_PASSWORD")
			}
			res := tracker.NewAdminClient(server, password).List(cmd.Context())
			if err := printJSON(cmd.OutOrStdout(), res); err != nil {
				return err
			}
			if !res.Success {
				return fmt.Errorf("list visitors: %s", res.Error)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&server, "server", "http://localhost:3001", "tracking API origin")
	cmd.Flags().StringVar(&password, "password", "", "admin password (defaults to ADMIN_PASSWORD)")
	return cmd
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Dump stored visitors as JSON, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			list, err := svc.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}
			if list.Message != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), list.Message)
			}
			return printJSON(cmd.OutOrStdout(), list.Visitors)
		},
	}
}

func newImportCmd() *cobra.Command {
	var filename string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Append visitors from a JSON dump",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(filename)
			if err != nil {
				return fmt.Errorf("failed to open file: %w", err)
			}
			defer file.Close()

			var visits []domain.Visit
			if err := json.NewDecoder(file).Decode(&visits); err != nil {
				return fmt.Errorf("decode failed: %w", err)
			}

			svc, closeFn, err := openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			n, err := svc.Import(cmd.Context(), visits)
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d visitors\n", n)
			return err
		},
	}
	cmd.Flags().StringVar(&filename, "file", "", "JSON file to import")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every stored visitor",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			if err := svc.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All visitors cleared")
			return nil
		},
	}
}

func printJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
