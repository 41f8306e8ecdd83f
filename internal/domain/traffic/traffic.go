// Package traffic defines the quota tuple extracted from a subscription endpoint.
package traffic

// Fields is the (upload, download, total, expire) tuple. Absent fields stay 0.
// The total >= upload+download invariant is assumed, not enforced: Remaining
// may come out negative and formatting clamps it.
type Fields struct {
	upload   uint64
	download uint64
	total    uint64
	expire   int64
}

// New creates a Fields value.
func New(upload, download, total uint64, expire int64) Fields {
	return Fields{upload: upload, download: download, total: total, expire: expire}
}

// Upload returns consumed upstream bytes.
func (f Fields) Upload() uint64 { return f.upload }

// Download returns consumed downstream bytes.
func (f Fields) Download() uint64 { return f.download }

// Total returns the allotted bytes.
func (f Fields) Total() uint64 { return f.total }

// Expire returns the account expiry as epoch seconds, 0 when unknown.
func (f Fields) Expire() int64 { return f.expire }

// Used returns upload+download.
func (f Fields) Used() uint64 { return f.upload + f.download }

// Remaining returns total-used as a signed value; negative when the
// endpoint reports more usage than allotment.
func (f Fields) Remaining() int64 {
	return int64(f.total) - int64(f.upload) - int64(f.download)
}

// IsZero reports whether every field is still at its default.
func (f Fields) IsZero() bool {
	return f.upload == 0 && f.download == 0 && f.total == 0 && f.expire == 0
}

// Overlay fills fields still at 0 from other, keeping f's non-zero values.
func (f Fields) Overlay(other Fields) Fields {
	if f.upload == 0 {
		f.upload = other.upload
	}
	if f.download == 0 {
		f.download = other.download
	}
	if f.total == 0 {
		f.total = other.total
	}
	if f.expire == 0 {
		f.expire = other.expire
	}
	return f
}
