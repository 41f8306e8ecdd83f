// Package status defines the resolver's tagged result: either a formatted
// usage report or a human-readable failure reason, never both.
package status

// Usage carries the formatted traffic report of a successful resolution.
type Usage struct {
	upload        string
	download      string
	used          string
	remaining     string
	total         string
	expireDate    string
	remainingTime string
	expired       bool
}

// NewUsage creates a formatted usage report.
func NewUsage(upload, download, used, remaining, total, expireDate, remainingTime string, expired bool) Usage {
	return Usage{
		upload:        upload,
		download:      download,
		used:          used,
		remaining:     remaining,
		total:         total,
		expireDate:    expireDate,
		remainingTime: remainingTime,
		expired:       expired,
	}
}

// Upload returns the formatted upstream usage.
func (u Usage) Upload() string { return u.upload }

// Download returns the formatted downstream usage.
func (u Usage) Download() string { return u.download }

// Used returns the formatted upload+download sum.
func (u Usage) Used() string { return u.used }

// Remaining returns the formatted remaining quota.
func (u Usage) Remaining() string { return u.remaining }

// Total returns the formatted allotment.
func (u Usage) Total() string { return u.total }

// ExpireDate returns the civil expiry date, or the unknown sentinel.
func (u Usage) ExpireDate() string { return u.expireDate }

// RemainingTime returns the formatted time until expiry, empty when the
// subscription is already expired or the expiry is unknown.
func (u Usage) RemainingTime() string { return u.remainingTime }

// Expired reports whether the expiry epoch lies in the past.
func (u Usage) Expired() bool { return u.expired }

// Status is the total result of one resolution. Exactly one of the Ok
// payload and the Err reason is populated.
type Status struct {
	name   string
	note   string
	usage  Usage
	reason string
	ok     bool
}

// Ok creates a successful status.
func Ok(name string, u Usage) Status {
	return Status{name: name, usage: u, ok: true}
}

// Err creates a failed status with a human-readable reason.
func Err(name, reason string) Status {
	return Status{name: name, reason: reason}
}

// Name returns the subscription name the status refers to.
func (s Status) Name() string { return s.name }

// Note returns the operator note attached to the status.
func (s Status) Note() string { return s.note }

// Usage returns the Ok payload. Zero value when IsErr.
func (s Status) Usage() Usage { return s.usage }

// Reason returns the failure reason. Empty when the status is Ok.
func (s Status) Reason() string { return s.reason }

// IsErr reports whether the status carries a failure.
func (s Status) IsErr() bool { return !s.ok }

// WithNote returns a copy of the status carrying the given note.
func (s Status) WithNote(note string) Status {
	s.note = note
	return s
}
