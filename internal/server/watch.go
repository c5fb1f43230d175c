package server

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mvollmer/lanegraph/pkg/pipeline"
)

// updateMessage is pushed to websocket clients after a recompute.
type updateMessage struct {
	Type       string `json:"type"`
	LayoutHash string `json:"layout_hash"`
	CurrentRef string `json:"current_ref"`
}

// watch recomputes the layout and notifies clients when the repository
// changes. Events are debounced: git writes refs, objects, and HEAD in
// bursts, and one recompute per burst is enough.
func (s *Server) watch(ctx context.Context) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		s.logger.Error("repository watch disabled", "error", err)
		return
	}
	defer watcher.Close()

	for _, path := range watchPaths(s.cfg.RepoPath) {
		if err := watcher.Add(path); err != nil {
			s.logger.Error("repository watch disabled", "path", path, "error", err)
			return
		}
		s.logger.Debug("watching", "path", path)
	}

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	recompute := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if shouldIgnoreWatchPath(event.Name) {
				continue
			}
			if timer == nil {
				timer = time.AfterFunc(s.cfg.Debounce, func() {
					select {
					case recompute <- struct{}{}:
					default:
					}
				})
			} else {
				timer.Reset(s.cfg.Debounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logger.Error("watch error", "error", err)
		case <-recompute:
			s.recomputeAndBroadcast(ctx)
		}
	}
}

func (s *Server) recomputeAndBroadcast(ctx context.Context) {
	opts := s.cfg.Options
	opts.Formats = []string{pipeline.FormatJSON}
	opts.Refresh = true

	result, err := s.runner.Execute(ctx, s.src, opts)
	if err != nil {
		s.logger.Error("recompute failed", "error", err)
		return
	}
	s.logger.Info("repository changed",
		"commits", result.Stats.CommitCount,
		"hash", result.LayoutHash,
		"clients", s.hub.ClientCount())
	s.hub.Broadcast(updateMessage{
		Type:       "update",
		LayoutHash: result.LayoutHash,
		CurrentRef: result.CurrentRef,
	})
}

// watchPaths returns the directories to watch: the .git directory when
// it exists, otherwise the repository root.
func watchPaths(root string) []string {
	gitDir := filepath.Join(root, ".git")
	info, err := os.Stat(gitDir)
	if err != nil || !info.IsDir() {
		return []string{root}
	}
	paths := []string{gitDir}
	headsDir := filepath.Join(gitDir, "refs", "heads")
	if info, err := os.Stat(headsDir); err == nil && info.IsDir() {
		paths = append(paths, headsDir)
	}
	return paths
}

// shouldIgnoreWatchPath filters transient files that git churns
// through during normal operation.
func shouldIgnoreWatchPath(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".lock" || ext == ".tmp"
}
