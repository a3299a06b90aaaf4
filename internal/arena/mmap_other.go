//go:build !unix

package arena

const mmapSupported = false

// mapAnon reports no mapping; New falls back to a heap slice.
func mapAnon(int) ([]byte, error) { return nil, nil }

func unmap([]byte) error { return nil }
