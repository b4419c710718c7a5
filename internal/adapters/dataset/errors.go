package dataset

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrReadSnapshot indicates the snapshot file could not be read.
	ErrReadSnapshot = errors.New("read snapshot")
	// ErrDecodeSnapshot indicates the snapshot file is not valid JSON.
	ErrDecodeSnapshot = errors.New("decode snapshot")
)
