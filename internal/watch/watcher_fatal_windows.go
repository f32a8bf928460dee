// SPDX-License-Identifier: MPL-2.0

//go:build windows

package watch

import "syscall"

// fatalErrnos are Win32 codes after which ReadDirectoryChangesW stops
// delivering events: too many open files (4), invalid handle (6) when the
// directory disappeared, and not enough memory (8).
var fatalErrnos = []syscall.Errno{4, 6, 8}
