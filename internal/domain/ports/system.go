package ports

import "time"

// Clock supplies wall-clock time.
type Clock interface {
	Now() time.Time
}

// HostResolver returns the identifier of the machine running an operation.
type HostResolver interface {
	Hostname() (string, error)
}
