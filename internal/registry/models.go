// Package registry answers whether a device is permitted to write. The
// backing registry is maintained by an out-of-band administrative process;
// this module only ever reads it.
package registry

import "time"

// Device is one registry entry. The active flag is the whole authorization
// policy: token issuance and rotation live outside this system.
type Device struct {
	ID        string
	Active    bool
	CreatedAt time.Time
}
