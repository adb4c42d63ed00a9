// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package lifecycle

import (
	"github.com/juju/mutex/v2"
)

// PatchMutexAcquirer lets tests substitute the inter-process mutex.
func PatchMutexAcquirer(o *Orchestrator, acquire func(mutex.Spec) (mutex.Releaser, error)) {
	o.acquireMutex = acquire
}
