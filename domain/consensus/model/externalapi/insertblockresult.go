package externalapi

// BlockInsertionResult is auxiliary data returned from ValidateAndInsertBlock
type BlockInsertionResult struct {
	VirtualSelectedParentChainChanges *SelectedChainPath
}

// SelectedChainPath is the set of changes made to the virtual selected parent chain.
// Removed is ordered from the old selected tip downwards, Added from the
// common ancestor upwards.
type SelectedChainPath struct {
	Added   []*DomainHash
	Removed []*DomainHash
}
