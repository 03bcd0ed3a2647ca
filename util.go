package disk_image_create

const (
	chunkSizeBits = 12
	chunkSize     = 1 << chunkSizeBits // 4KiB
	unitSizeBits  = 20
	unitSize      = 1 << unitSizeBits // 1MiB

	// chunksPerUnit is derived so the remainder detection in the write loop
	// stays correct if chunkSizeBits ever changes.
	chunksPerUnit = unitSize / chunkSize
)

func byteSizeToUnitCnt(size uint64) int64 {
	return int64((size + unitSize - 1) / unitSize)
}

// chunksInUnit returns how many full chunks of the given unit are covered by
// a file of the given size. All units before the last one get chunksPerUnit.
func chunksInUnit(size uint64, unitIdx int64) int64 {
	remaining := int64(size>>chunkSizeBits) - unitIdx*chunksPerUnit
	if remaining > chunksPerUnit {
		return chunksPerUnit
	}
	return remaining
}

// tailBytesInUnit returns the byte count past the last full chunk of the
// given unit. Non-zero only for the final, partial unit.
func tailBytesInUnit(size uint64, unitIdx, chunks int64) int64 {
	return int64(size) - unitIdx*unitSize - chunks*chunkSize
}
