package howl

import (
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/DerithAI/WOLF-AI/types"
)

// Follow tails the bridge file and invokes fn for every howl appended
// after the call, until ctx is done. Watcher errors are tolerated;
// only setup failures are returned.
func (b *Bridge) Follow(ctx context.Context, fn func(Howl)) error {
	f, err := os.Open(b.path)
	if err != nil {
		return &types.StoreIOError{Op: "open", Path: b.path, Err: err}
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Seek(0, io.SeekEnd); err != nil {
		return &types.StoreIOError{Op: "seek", Path: b.path, Err: err}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory: append-only writers recreate or rename the
	// file less often than they write, but the directory watch covers
	// both.
	if err := watcher.Add(filepath.Dir(b.path)); err != nil {
		return err
	}

	reader := bufio.NewReader(f)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != b.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			drainNewLines(f, reader, fn)
		case _, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
		}
	}
}

// drainNewLines reads complete lines up to EOF. A partial trailing line
// is rewound so the next drain re-reads it whole.
func drainNewLines(f *os.File, reader *bufio.Reader, fn func(Howl)) {
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if len(line) > 0 {
				if _, serr := f.Seek(-int64(len(line)), io.SeekCurrent); serr == nil {
					reader.Reset(f)
				}
			}
			return
		}
		if h, ok := decodeLine([]byte(line)); ok {
			fn(h)
		}
	}
}
