// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package watch

import "syscall"

// fatalErrnos exhaust inotify or descriptor limits; the watcher cannot
// recover from them (fs.inotify.max_user_watches, per-process and
// system-wide file tables).
var fatalErrnos = []syscall.Errno{syscall.ENOSPC, syscall.EMFILE, syscall.ENFILE}
