package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"ikit-news/internal/config"
	"ikit-news/internal/importer"
	"ikit-news/internal/model"
	"ikit-news/internal/news"
	"ikit-news/internal/server"
	"ikit-news/internal/session"
	"ikit-news/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	logger *zap.Logger
	cfg    *config.Config

	addr         string
	redisAddr    string
	badgerPath   string
	inMemory     bool
	articlesFile string
	logLevel     string

	importCategory string
)

var rootCmd = &cobra.Command{
	Use:   "ikit",
	Short: "ikit - news portal of the Institute of Space and Information Technologies",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l := config.NewLoader()
		overrides := map[string]struct {
			key   string
			value any
		}{
			"addr":      {"server.addr", addr},
			"redis":     {"storage.redis_addr", redisAddr},
			"badger":    {"storage.badger_path", badgerPath},
			"in-memory": {"storage.in_memory", inMemory},
			"articles":  {"news.articles_file", articlesFile},
			"log-level": {"log.level", logLevel},
		}
		for flag, o := range overrides {
			if cmd.Flags().Changed(flag) {
				if err := l.Set(o.key, o.value); err != nil {
					return err
				}
			}
		}

		var err error
		cfg, err = l.Load()
		if err != nil {
			return err
		}
		logger, err = newLogger(cfg.Log)
		return err
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web portal",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Setup Signal Handling (Ctrl+C)
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			logger.Info("Shutting down...")
			cancel()
		}()

		st, err := store.NewHybridStore(store.Options{
			RedisAddr:  cfg.Storage.RedisAddr,
			RedisTTL:   cfg.Storage.RedisTTL,
			BadgerPath: cfg.Storage.BadgerPath,
			InMemory:   cfg.Storage.InMemory,
			GCInterval: cfg.Storage.GCInterval,
		}, logger)
		if err != nil {
			return fmt.Errorf("failed to init store: %w", err)
		}
		defer st.Close()

		catalog := news.NewCatalog()
		if cfg.News.ArticlesFile != "" {
			n, err := catalog.LoadFile(cfg.News.ArticlesFile)
			if err != nil {
				return err
			}
			if n > 0 {
				logger.Info("Loaded imported articles", zap.Int("count", n), zap.String("file", cfg.News.ArticlesFile))
			}
		}

		sessions := session.NewManager(st, session.MockAuthenticator{}, logger)
		srv, err := server.NewServer(cfg.Server, sessions, catalog, logger)
		if err != nil {
			return err
		}

		errChan := make(chan error, 1)
		go func() {
			errChan <- srv.Start()
		}()

		select {
		case err := <-errChan:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
		case <-ctx.Done():
		}

		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		if err := srv.Stop(shutdownCtx); err != nil {
			logger.Error("Shutdown failed", zap.Error(err))
		}
		logger.Info("Goodbye!")
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import [url]",
	Short: "Import a web article into the articles file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !slices.Contains(news.Categories, importCategory) {
			return fmt.Errorf("unknown category %q, want one of: %s", importCategory, strings.Join(news.Categories, ", "))
		}
		if cfg.News.ArticlesFile == "" {
			return errors.New("no articles file configured")
		}

		article, err := importer.New(logger).Import(args[0], importCategory)
		if err != nil {
			return err
		}
		saved, err := importer.AppendFile(cfg.News.ArticlesFile, article)
		if err != nil {
			return err
		}

		logger.Info("Article imported",
			zap.String("id", saved.ID),
			zap.String("title", saved.Title),
			zap.String("file", cfg.News.ArticlesFile))
		return nil
	},
}

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "Print what each role may do",
	Run: func(cmd *cobra.Command, args []string) {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprint(tw, "ROLE")
		for _, a := range model.Actions {
			fmt.Fprintf(tw, "\t%s", a)
		}
		fmt.Fprintln(tw)
		for _, r := range model.Roles {
			fmt.Fprint(tw, r)
			for _, a := range model.Actions {
				mark := "-"
				if model.CanPerform(r, a) {
					mark = "yes"
				}
				fmt.Fprintf(tw, "\t%s", mark)
			}
			fmt.Fprintln(tw)
		}
		tw.Flush()
	},
}

func newLogger(lc config.LogConfig) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(lc.Level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if lc.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = level
	return zc.Build()
}

func main() {
	rootCmd.PersistentFlags().StringVar(&addr, "addr", ":3000", "HTTP listen address")
	rootCmd.PersistentFlags().StringVar(&redisAddr, "redis", "", "Address of Redis server (optional session mirror)")
	rootCmd.PersistentFlags().StringVar(&badgerPath, "badger", "./badger-data", "Path to BadgerDB data directory")
	rootCmd.PersistentFlags().BoolVar(&inMemory, "in-memory", false, "Keep sessions in memory only")
	rootCmd.PersistentFlags().StringVar(&articlesFile, "articles", "articles.json", "JSON file with imported articles")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	importCmd.Flags().StringVar(&importCategory, "category", "События", "Category of the imported article")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(rolesCmd)

	err := rootCmd.Execute()
	if logger != nil {
		logger.Sync()
	}
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
