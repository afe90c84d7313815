// Package watch re-runs work when policy files change.
//
// A Watcher follows a file or a directory tree with fsnotify, keeps only
// events for the configured extensions and hands the changed paths to a
// callback once events have been quiet for the debounce interval:
//
//	w, err := watch.New(&watch.Config{Path: "policies", Extensions: []string{".ttl"}}, logger)
//	if err != nil {
//	    return err
//	}
//	defer w.Stop()
//	return w.Watch(ctx, func(paths []string) {
//	    for _, p := range paths {
//	        revalidate(p)
//	    }
//	})
package watch
