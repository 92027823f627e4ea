package probemap

type Stats struct {
	Size       int
	Capacity   int
	Tombstones int

	LoadFactor              float32
	TombstonesCapacityRatio float32
}
