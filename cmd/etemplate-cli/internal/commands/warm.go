package commands

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"etemplate-service/internal/core/domain"
	"etemplate-service/internal/core/services"
)

func newWarmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "warm",
		Short: "Convert every known template into the cache",
		Args:  cobra.NoArgs,
		RunE:  runWarm,
	}
	cmd.Flags().Bool("watch", false, "keep running and reconvert templates when they change")
	return cmd
}

func runWarm(cmd *cobra.Command, _ []string) error {
	watch, err := cmd.Flags().GetBool("watch")
	if err != nil {
		return fmt.Errorf("invalid watch flag: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, app, closeApp, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer closeApp()

	n, err := app.TemplateSvc.WarmAll(ctx)
	if err != nil {
		if n == 0 {
			return err
		}
		log.WithError(err).Warn("some templates could not be converted")
	}
	log.WithField("templates", n).Info("template cache warmed")
	fmt.Fprintf(cmd.OutOrStdout(), "%d templates warmed\n", n)

	if !watch {
		return nil
	}
	return watchTemplates(ctx, app.TemplateSvc, cfg.Templates.Root)
}

// watchTemplates reloads templates below root whenever they are written.
func watchTemplates(ctx context.Context, svc *services.TemplateService, root string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	dirs, err := filepath.Glob(filepath.Join(root, "*", "templates", "*"))
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			log.WithError(err).WithField("dir", dir).Warn("cannot watch template dir")
		}
	}
	log.WithField("dirs", len(dirs)).Info("watching templates")

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			pathInfo, ok := pathInfoFor(root, event.Name)
			if !ok {
				continue
			}
			if _, err := svc.Load(ctx, pathInfo); err != nil {
				log.WithError(err).WithField("template", pathInfo).Warn("template reload failed")
				continue
			}
			log.WithField("template", pathInfo).Info("template reloaded")
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).Warn("watcher error")
		}
	}
}

// pathInfoFor maps a file below root to the path info it is served under.
func pathInfoFor(root, file string) (string, bool) {
	rel, err := filepath.Rel(root, file)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	ref, err := domain.ParsePathInfo("/" + filepath.ToSlash(rel))
	if err != nil {
		return "", false
	}
	return ref.PathInfo, true
}
