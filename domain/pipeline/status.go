package pipeline

// ProcessingStatus is the outcome of pushing a block through the pipeline
type ProcessingStatus uint8

const (
	// StatusAccepted means the block was inserted into the DAG
	StatusAccepted ProcessingStatus = iota

	// StatusOrphaned means the block waits for missing parents
	StatusOrphaned

	// StatusRejected means the block broke a consensus rule
	StatusRejected

	// StatusEvicted means the block was dropped from a full orphan pool
	StatusEvicted
)

var processingStatusStrings = map[ProcessingStatus]string{
	StatusAccepted: "Accepted",
	StatusOrphaned: "Orphaned",
	StatusRejected: "Rejected",
	StatusEvicted:  "Evicted",
}

func (s ProcessingStatus) String() string {
	return processingStatusStrings[s]
}
