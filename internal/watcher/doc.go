// Package watcher reports changes under an extension project so the
// checklist can be re-run.
//
// The watcher uses fsnotify where it can and falls back to polling
// (network mounts, Docker volumes, exhausted inotify watches). Events are
// debounced so an editor save or a `git checkout` produces one batch, and
// directories named in the ignore list (node_modules, out, ...) are never
// watched.
//
// Usage:
//
//	w, err := watcher.NewHybridWatcher(watcher.Options{IgnoreDirs: cfg.Watch.Ignore})
//	if err != nil {
//	    return err
//	}
//	go func() { _ = w.Start(ctx, root) }()
//
//	for batch := range w.Events() {
//	    rerun(batch)
//	}
//
// ProjectLock keeps a second `extcheck watch` from running on the same root.
package watcher
