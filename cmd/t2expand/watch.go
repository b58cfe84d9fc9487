package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/tliron/commonlog"
)

// watch は入力ファイルが書き換わるたびに展開し直す。ctx が終わるまで戻らない。
// 置き換え保存でも追えるように、ファイルではなく親ディレクトリを監視する。
func watch(ctx context.Context, j job, log commonlog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()

	target, err := filepath.Abs(j.input)
	if err != nil {
		return fmt.Errorf("cannot resolve path %s: %w", j.input, err)
	}
	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}

	runAndLog(j, log)

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !isChangeOf(ev, target) {
				continue
			}
			runAndLog(j, log)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warningf("watch: %v", err)
		}
	}
}

// isChangeOf は ev が target の作成か書き込みかどうかを判定する。
func isChangeOf(ev fsnotify.Event, target string) bool {
	name, err := filepath.Abs(ev.Name)
	if err != nil || name != target {
		return false
	}
	return ev.Op&(fsnotify.Write|fsnotify.Create) != 0
}

func runAndLog(j job, log commonlog.Logger) {
	if err := j.run(); err != nil {
		log.Error("expansion failed", "input", j.input, "error", err.Error())
		return
	}
	log.Info("expanded", "input", j.input)
}
