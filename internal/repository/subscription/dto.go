package subscription

import (
	domsub "github.com/subwatch/subwatch/internal/domain/subscription"
)

const (
	fieldName = "name"
	fieldURL  = "url"
	fieldNote = "note"
)

func refToHash(ref domsub.Ref) map[string]string {
	return map[string]string{
		fieldName: ref.Name(),
		fieldURL:  ref.URL(),
		fieldNote: ref.Note(),
	}
}

func refFromHash(m map[string]string) domsub.Ref {
	return domsub.Reconstruct(m[fieldName], m[fieldURL], m[fieldNote])
}
