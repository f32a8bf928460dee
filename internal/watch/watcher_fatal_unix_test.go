// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package watch

import (
	"fmt"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsFatalFsnotifyError(t *testing.T) {
	t.Parallel()

	assert.True(t, isFatalFsnotifyError(syscall.ENOSPC))
	assert.True(t, isFatalFsnotifyError(syscall.EMFILE))
	assert.True(t, isFatalFsnotifyError(fmt.Errorf("inotify_add_watch: %w", syscall.ENFILE)))
	assert.False(t, isFatalFsnotifyError(syscall.EACCES))
	assert.False(t, isFatalFsnotifyError(fmt.Errorf("queue overflow")))
}
